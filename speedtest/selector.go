package speedtest

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ztelliot/stest-cli/defs"
)

// ErrNoServersMatched is reported when filtering leaves no candidate
var ErrNoServersMatched = errors.New("no servers matched")

// selection paths, exactly one runs per Select call
const (
	PathCountry     = "country"
	PathCountryCode = "country-code"
	PathDistance    = "distance"
)

// Filter is the caller's selection request
type Filter struct {
	Country       string
	CountryCode   string
	MaxCandidates int
}

// Selection is the outcome of Select with the counts needed for progress output
type Selection struct {
	Servers     []defs.Server
	Path        string
	Catalog     int
	AfterIgnore int
}

// FilterIgnored drops the servers whose ID is in ignore, preserving order
func FilterIgnored(servers []defs.Server, ignore map[int]struct{}) []defs.Server {
	ret := make([]defs.Server, 0, len(servers))
	for _, s := range servers {
		if _, skip := ignore[s.ID]; !skip {
			ret = append(ret, s)
		}
	}
	return ret
}

// FilterByCountry keeps servers whose country name equals name, ignoring case
func FilterByCountry(servers []defs.Server, name string) []defs.Server {
	return filterServers(servers, func(s defs.Server) bool {
		return strings.EqualFold(s.Country, name)
	})
}

// FilterByCountryCode keeps servers whose country code equals code, ignoring case
func FilterByCountryCode(servers []defs.Server, code string) []defs.Server {
	return filterServers(servers, func(s defs.Server) bool {
		return strings.EqualFold(s.CountryCode, code)
	})
}

func filterServers(servers []defs.Server, keep func(defs.Server) bool) []defs.Server {
	ret := make([]defs.Server, 0)
	for _, s := range servers {
		if keep(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// RankByDistance orders servers by distance from client rounded to whole kilometers
// and returns at most max of them. Equal rounded distances keep catalog order.
// A max of zero or less returns every server.
func RankByDistance(client defs.Coordinate, servers []defs.Server, max int) []defs.Server {
	type ranked struct {
		server defs.Server
		km     float64
	}

	list := make([]ranked, len(servers))
	for i, s := range servers {
		list[i] = ranked{server: s, km: math.Round(defs.Distance(client, s.Location()))}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].km < list[j].km
	})

	if max > 0 && len(list) > max {
		list = list[:max]
	}

	ret := make([]defs.Server, len(list))
	for i, r := range list {
		ret[i] = r.server
	}
	return ret
}

// Select applies the ignore list and then exactly one of: country name filter,
// country code filter, or distance ranking (in that order of precedence).
func Select(catalog []defs.Server, client defs.Coordinate, hints defs.SelectionHints, f Filter) Selection {
	sel := Selection{Catalog: len(catalog)}

	servers := FilterIgnored(catalog, hints.IgnoreIDs)
	sel.AfterIgnore = len(servers)

	switch {
	case f.Country != "":
		sel.Path = PathCountry
		sel.Servers = FilterByCountry(servers, f.Country)
	case f.CountryCode != "":
		sel.Path = PathCountryCode
		sel.Servers = FilterByCountryCode(servers, f.CountryCode)
	default:
		sel.Path = PathDistance
		sel.Servers = RankByDistance(client, servers, f.MaxCandidates)
	}
	return sel
}
