// Package ide writes IntelliJ IDEA module and library files for the
// projects of a closed graph, so that sibling checkouts are indexed as
// sources instead of as node_modules copies.
package ide

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/fbkclanna/siblink/internal/graph"
)

// DefaultExclusions are excluded from every module.
var DefaultExclusions = []string{".tmp", "dist", "app/bower_components"}

// MappingsFile is the project-level library mapping file, relative to Root.
const MappingsFile = ".idea/jsLibraryMappings.xml"

// Writer writes IntelliJ files for projects below Root.
type Writer struct {
	// Root is the IDE project directory holding .idea.
	Root string
	// DryRun prints the files to Out instead of writing them.
	DryRun bool
	Out    io.Writer
	Log    zerolog.Logger
}

// Write generates a module file in every local project, a library file per
// project and the shared library mappings.
func (w *Writer) Write(reg *graph.Registry) error {
	var local []*graph.Project
	for _, p := range reg.Projects() {
		if !p.IsLocal() {
			w.Log.Debug().Str("project", p.Name).Msg("not checked out, no module written")
			continue
		}
		local = append(local, p)
	}

	for _, p := range local {
		if err := w.write(filepath.Join(p.Path, ModuleFileName(p.Name)), Module(p)); err != nil {
			return err
		}
		lib := filepath.Join(w.Root, ".idea", "libraries", LibraryFileName(p.Name))
		if err := w.write(lib, Library(p, w.rel(p))); err != nil {
			return err
		}
	}
	return w.write(filepath.Join(w.Root, MappingsFile), Mappings(local, w.rel))
}

func (w *Writer) rel(p *graph.Project) string {
	r, err := filepath.Rel(w.Root, p.Path)
	if err != nil {
		return p.Path
	}
	return filepath.ToSlash(r)
}

func (w *Writer) write(path string, doc *etree.Document) error {
	w.Log.Debug().Str("file", path).Msg("writing")
	doc.Indent(2)
	if w.DryRun {
		_, _ = fmt.Fprintf(w.Out, "(skipped) writing %s\n", path)
		_, err := doc.WriteTo(w.Out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Exclusions returns the nested node_modules of every sibling dependency,
// which are shadowed by the linked checkout.
func Exclusions(p *graph.Project) []string {
	out := make([]string, 0, len(p.Deps))
	for _, dep := range p.Deps {
		out = append(out, "node_modules/"+dep+"/node_modules")
	}
	return out
}

// Module builds the .iml file for p.
func Module(p *graph.Project) *etree.Document {
	doc := newDocument()
	module := doc.CreateElement("module")
	module.CreateAttr("type", "WEB_MODULE")
	module.CreateAttr("version", "4")

	manager := module.CreateElement("component")
	manager.CreateAttr("name", "NewModuleRootManager")
	manager.CreateAttr("inherit-compiler-output", "true")
	manager.CreateElement("exclude-output")

	content := manager.CreateElement("content")
	content.CreateAttr("url", "file://$MODULE_DIR$")
	for _, ex := range append(append([]string{}, DefaultExclusions...), Exclusions(p)...) {
		content.CreateElement("excludeFolder").CreateAttr("url", "file://$MODULE_DIR$/"+ex)
	}

	manager.CreateElement("orderEntry").CreateAttr("type", "inheritedJdk")
	src := manager.CreateElement("orderEntry")
	src.CreateAttr("type", "sourceFolder")
	src.CreateAttr("forTests", "false")
	lib := manager.CreateElement("orderEntry")
	lib.CreateAttr("type", "library")
	lib.CreateAttr("name", libraryName(p.Name))
	lib.CreateAttr("level", "project")
	return doc
}

// Library builds the node_modules library definition for p, whose directory
// relative to the IDE project is rel.
func Library(p *graph.Project, rel string) *etree.Document {
	doc := newDocument()
	table := doc.CreateElement("component")
	table.CreateAttr("name", "libraryTable")

	lib := table.CreateElement("library")
	lib.CreateAttr("name", libraryName(p.Name))
	lib.CreateAttr("type", "javaScript")

	modules := "file://$PROJECT_DIR$/" + rel + "/node_modules"
	props := lib.CreateElement("properties")
	opt := props.CreateElement("option")
	opt.CreateAttr("name", "frameworkName")
	opt.CreateAttr("value", "node_modules")
	props.CreateElement("sourceFilesUrls").CreateElement("item").CreateAttr("url", modules)

	lib.CreateElement("CLASSES").CreateElement("root").CreateAttr("url", modules)
	excluded := lib.CreateElement("excluded")
	for _, dep := range p.Deps {
		excluded.CreateElement("root").CreateAttr("url", modules+"/"+dep+"/node_modules")
	}
	lib.CreateElement("SOURCES")
	return doc
}

// Mappings builds jsLibraryMappings.xml attaching each project's library to
// its directory.
func Mappings(projects []*graph.Project, rel func(*graph.Project) string) *etree.Document {
	doc := newDocument()
	project := doc.CreateElement("project")
	project.CreateAttr("version", "4")
	mappings := project.CreateElement("component")
	mappings.CreateAttr("name", "JavaScriptLibraryMappings")
	for _, p := range projects {
		file := mappings.CreateElement("file")
		file.CreateAttr("url", "file://$PROJECT_DIR$/"+rel(p))
		file.CreateAttr("libraries", "{"+libraryName(p.Name)+"}")
	}
	return doc
}

// ModuleFileName is the .iml file written in the directory of project name.
func ModuleFileName(name string) string {
	return scopeChars.Replace(name) + ".iml"
}

// LibraryFileName is the file under .idea/libraries for project name.
func LibraryFileName(name string) string {
	return libraryChars.Replace(name) + "_node_modules.xml"
}

func libraryName(name string) string {
	return name + " node_modules"
}

var (
	scopeChars   = strings.NewReplacer("@", "", "/", "_")
	libraryChars = strings.NewReplacer("@", "", "/", "_", " ", "_", "-", "_")
)

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}
