package serving

import (
	"bytes"
	"html/template"
	"net/url"
	"os"
	"sort"
	"strings"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE HTML>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{- range .Entries}}
<li><a href="{{.Link}}">{{.Name}}</a></li>
{{- end}}
</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Link string
}

type listing struct {
	Path    string
	Entries []listingEntry
}

// newListing describes the entries of the directory at urlPath. Directories
// are suffixed with "/" and symlinks with "@" in the displayed name.
func newListing(urlPath string, entries []os.DirEntry) *listing {
	l := &listing{
		Path:    urlPath,
		Entries: make([]listingEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		name := entry.Name()
		display, link := name, name

		switch {
		case entry.IsDir():
			display += "/"
			link += "/"
		case entry.Type()&os.ModeSymlink != 0:
			display += "@"
		}

		l.Entries = append(l.Entries, listingEntry{Name: display, Link: escapeLink(link)})
	}

	sort.Slice(l.Entries, func(i, j int) bool {
		return strings.ToLower(l.Entries[i].Name) < strings.ToLower(l.Entries[j].Name)
	})

	return l
}

func (l *listing) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, l); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// escapeLink turns a file name into a relative URL. Names containing a colon
// get a "./" prefix so they are not mistaken for a scheme.
func escapeLink(name string) string {
	return (&url.URL{Path: name}).String()
}
