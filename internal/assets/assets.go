// Package assets holds the immutable files served by the engine. File
// contents are compiled into the binary and are never copied when served.
package assets

import (
	_ "embed"
	"mime"
	"path"
	"unsafe"
)

const defaultType = "application/octet-stream"

// File is a named immutable blob with its MIME type.
type File struct {
	Name string
	Type string
	data string
}

// New wraps data as a File. An empty mimeType is derived from the name's
// extension.
func New(name, mimeType, data string) *File {
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(name))
	}
	if mimeType == "" {
		mimeType = defaultType
	}
	return &File{Name: name, Type: mimeType, data: data}
}

// Bytes returns the file contents without copying them.
// WARNING: the slice aliases read-only memory, never write through it.
func (f *File) Bytes() []byte {
	return unsafe.Slice(unsafe.StringData(f.data), len(f.data))
}

func (f *File) Len() int { return len(f.data) }

func (f *File) String() string { return f.data }

var (
	//go:embed ui/index.html
	indexHTML string
	//go:embed ui/custom.js
	customJS string
	//go:embed ui/style.css
	styleCSS string
	//go:embed ui/status.json
	statusJSON string
	//go:embed ui/profile.json
	profileJSON string
)

var (
	Index       = New("index.html", "text/html", indexHTML)
	CustomJS    = New("custom.js", "text/javascript", customJS)
	StyleCSS    = New("style.css", "text/css", styleCSS)
	StatusJSON  = New("status.json", "application/json", statusJSON)
	ProfileJSON = New("profile.json", "application/json", profileJSON)
)
