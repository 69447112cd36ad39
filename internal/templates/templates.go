// Package templates renders the files written into a generated project.
//
// Rendering is pure: the same Plan always yields the same files, and nothing
// here touches the project directory.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"text/template"

	"github.com/conn-castle/expofast/internal/messages"
	"github.com/conn-castle/expofast/internal/pkgmgr"
	"github.com/conn-castle/expofast/internal/plan"
)

// The all: prefix keeps files whose names start with an underscore (_layout).
//
//go:embed all:files
var templateFS embed.FS

const root = "files"

// File is one rendered project file. Path is slash-separated and relative to
// the project directory.
type File struct {
	Path    string
	Content []byte
}

// Read returns the raw template at name, relative to the embedded root.
func Read(name string) ([]byte, error) {
	return templateFS.ReadFile(path.Join(root, name))
}

// Walk calls fn for every entry below dir in the embedded templates.
func Walk(dir string, fn fs.WalkDirFunc) error {
	sub, err := fs.Sub(templateFS, root)
	if err != nil {
		return err
	}
	return fs.WalkDir(sub, dir, fn)
}

// ScreenExt returns the source extension used for screens and layouts.
func ScreenExt(lang plan.Language) string {
	if lang.Typed() {
		return ".tsx"
	}
	return ".js"
}

// RootLayoutPath returns the path of the router's root layout.
func RootLayoutPath(lang plan.Language) string {
	return "app/_layout" + ScreenExt(lang)
}

type screenData struct {
	ProjectName string
	Router      bool
}

func dataFor(p plan.Plan) screenData {
	return screenData{ProjectName: p.ProjectName(), Router: p.Enabled(plan.FlagRouter)}
}

// RouterFiles returns the root layout and, without tabs, the single index screen.
func RouterFiles(p plan.Plan) ([]File, error) {
	ext := ScreenExt(p.Language())
	files := []entry{{src: "router/_layout.tmpl", dst: RootLayoutPath(p.Language())}}
	if !p.Enabled(plan.FlagTabs) {
		files = append(files, entry{src: "router/index.tmpl", dst: "app/index" + ext})
	}
	return renderAll(files, dataFor(p))
}

// TabsFiles returns the tab group layout and its two screens.
func TabsFiles(p plan.Plan) ([]File, error) {
	ext := ScreenExt(p.Language())
	return renderAll([]entry{
		{src: "tabs/_layout.tmpl", dst: "app/(tabs)/_layout" + ext},
		{src: "tabs/index.tmpl", dst: "app/(tabs)/index" + ext},
		{src: "tabs/explore.tmpl", dst: "app/(tabs)/explore" + ext},
	}, dataFor(p))
}

// StylingFiles returns the NativeWind configuration written unconditionally.
// TypeScript projects also get the nativewind type reference.
func StylingFiles(p plan.Plan) ([]File, error) {
	files := []entry{
		{src: "styling/tailwind.config.js.tmpl", dst: "tailwind.config.js"},
		{src: "styling/global.css.tmpl", dst: "global.css"},
		{src: "styling/metro.config.js.tmpl", dst: "metro.config.js"},
	}
	if p.Language().Typed() {
		files = append(files, entry{src: "styling/nativewind-env.d.ts.tmpl", dst: NativeWindTypesFile})
	}
	return renderAll(files, dataFor(p))
}

// NativeWindTypesFile is the type reference added to tsconfig includes.
const NativeWindTypesFile = "nativewind-env.d.ts"

// BabelConfig returns the NativeWind babel configuration.
func BabelConfig() (File, error) {
	return render(entry{src: "styling/babel.config.js.tmpl", dst: "babel.config.js"}, nil)
}

// TSConfig returns the tsconfig.json written when the generator did not create one.
func TSConfig() (File, error) {
	return render(entry{src: "project/tsconfig.json.tmpl", dst: "tsconfig.json"}, nil)
}

// EASConfig returns eas.json with the development, preview and production profiles.
func EASConfig() (File, error) {
	return render(entry{src: "build/eas.json.tmpl", dst: "eas.json"}, nil)
}

// FailedFeature is a feature that did not finish, with the command to retry it.
type FailedFeature struct {
	Feature string
	Retry   string
}

// ReadmeData describes what the generated project actually contains.
// Feature booleans must reflect outcomes, not requests.
type ReadmeData struct {
	ProjectName    string
	PackageManager pkgmgr.Name
	Language       string
	Router         bool
	Tabs           bool
	Styling        bool
	BuildProfiles  bool
	InstallCommand string
	StartCommand   string
	Failed         []FailedFeature
}

// NewReadmeData fills the plan-derived fields. present reports whether a
// feature ended up in the project.
func NewReadmeData(p plan.Plan, present func(plan.Flag) bool) ReadmeData {
	pm := p.PackageManager()
	return ReadmeData{
		ProjectName:    p.ProjectName(),
		PackageManager: pm,
		Language:       p.Language().Label(),
		Router:         present(plan.FlagRouter),
		Tabs:           present(plan.FlagTabs),
		Styling:        present(plan.FlagStyling),
		BuildProfiles:  present(plan.FlagBuildProfiles),
		InstallCommand: pkgmgr.InstallAllCommand(pm),
		StartCommand:   pkgmgr.StartCommand(pm),
	}
}

// Readme renders README.md.
func Readme(data ReadmeData) (File, error) {
	return render(entry{src: "project/README.md.tmpl", dst: "README.md"}, data)
}

// Render returns every file the plan's enabled features write, in step order.
// Conditional writes (babel.config.js, tsconfig.json) and README.md are not included.
func Render(p plan.Plan) ([]File, error) {
	var out []File
	for _, flag := range p.EnabledFlags() {
		var (
			files []File
			err   error
		)
		switch flag {
		case plan.FlagRouter:
			files, err = RouterFiles(p)
		case plan.FlagTabs:
			files, err = TabsFiles(p)
		case plan.FlagStyling:
			files, err = StylingFiles(p)
		case plan.FlagBuildProfiles:
			var f File
			f, err = EASConfig()
			files = []File{f}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

type entry struct {
	src string
	dst string
}

func renderAll(entries []entry, data any) ([]File, error) {
	files := make([]File, 0, len(entries))
	for _, s := range entries {
		f, err := render(s, data)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func render(s entry, data any) (File, error) {
	raw, err := Read(s.src)
	if err != nil {
		return File{}, fmt.Errorf(messages.TemplatesReadFailedFmt, s.src, err)
	}
	tmpl, err := template.New(path.Base(s.src)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return File{}, fmt.Errorf(messages.TemplatesParseFailedFmt, s.src, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return File{}, fmt.Errorf(messages.TemplatesExecuteFailedFmt, s.src, err)
	}
	return File{Path: s.dst, Content: buf.Bytes()}, nil
}
