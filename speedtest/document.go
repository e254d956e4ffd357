package speedtest

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"

	"github.com/ztelliot/stest-cli/defs"
)

// parseElements collects the attribute lists of every element whose local name is
// in names, in document order. A syntax error stops the scan but whatever was
// collected before it is returned together with the error.
func parseElements(r io.Reader, names ...string) (map[string][]defs.Attributes, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	found := make(map[string][]defs.Attributes)
	dec := xml.NewDecoder(r)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return found, nil
		}
		if err != nil {
			return found, errors.Wrap(err, "failed to parse XML document")
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !wanted[start.Name.Local] {
			continue
		}

		attrs := make(defs.Attributes, 0, len(start.Attr))
		for _, a := range start.Attr {
			attrs = append(attrs, defs.Attribute{Name: a.Name.Local, Value: a.Value})
		}
		found[start.Name.Local] = append(found[start.Name.Local], attrs)
	}
}
