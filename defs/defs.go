package defs

var (
	BuildDate   string
	ProgName    string
	ProgVersion string
	UserAgent   = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.60 Safari/537.36"
)

const (
	ConfigURL = "http://www.speedtest.net/speedtest-config.php"
)

// CatalogMirrors are tried in order until one yields a non-empty server list
var CatalogMirrors = []string{
	"http://www.speedtest.net/speedtest-servers-static.php",
	"http://c.speedtest.net/speedtest-servers-static.php",
	"http://www.speedtest.net/speedtest-servers.php",
	"http://c.speedtest.net/speedtest-servers.php",
}
