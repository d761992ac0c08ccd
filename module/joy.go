package module

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/linker"
	"github.com/alexjc/joyfl/parser"
	"github.com/alexjc/joyfl/token"
)

// PathEnvVar is the one environment variable the module loader consults:
// an OS-list-separated set of filesystem roots searched for `ns.joy`
// files. Native modules are not located on disk; they come from the
// RegisterNative registry.
const PathEnvVar = "JOYFL_PATH"

// defaultPackagedDirs are well-known relative locations for packaged
// library files, searched after JOYFL_PATH.
var defaultPackagedDirs = []string{"lib", "joylib"}

// SearchPaths returns the ordered list of directories searched for
// `ns.joy` files: JOYFL_PATH entries first, then defaultPackagedDirs.
func SearchPaths() []string {
	var dirs []string
	if v := os.Getenv(PathEnvVar); v != "" {
		dirs = append(dirs, strings.Split(v, string(os.PathListSeparator))...)
	}
	return append(dirs, defaultPackagedDirs...)
}

func locate(ns string) (string, error) {
	name := ns + ".joy"
	for _, dir := range SearchPaths() {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", errors.Wrapf(library.ErrModuleNotFound, "module %q not found on %s", ns, PathEnvVar)
}

// JoyLoader returns a library.Loader that locates ns.joy on SearchPaths,
// parses it, and installs its definitions into lib under the `ns.`
// prefix.
func JoyLoader(gens *Generations) library.Loader {
	return func(lib *library.Library, ns string) error {
		path, err := locate(ns)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading module %q", ns)
		}
		if err := InstallSource(lib, ns, string(src), path); err != nil {
			return err
		}
		if gens != nil {
			gens.Set(ns, uuid.New())
		}
		return nil
	}
}

// InstallSource parses src (attributed to filename) and installs every
// library block it contains into lib under ns. A bare top-level term in
// a module file (one with no MODULE/PRIVATE/PUBLIC wrapper) is accepted
// by the parser but carries no definitions to install, so it is skipped
// here. A Joy source module is loaded, never run.
func InstallSource(lib *library.Library, ns, src, filename string) error {
	entries, err := parser.Parse(src, filename)
	if err != nil {
		return joyerr.Wrap(err, joyerr.ModuleError, "parsing module %q", ns)
	}
	for _, e := range entries {
		if e.Library == nil {
			continue
		}
		if err := installEntry(lib, ns, e); err != nil {
			return err
		}
	}
	return nil
}

func installEntry(lib *library.Library, ns string, e token.Entry) error {
	return linker.InstallBlock(lib, ns, e.Library.Types, e.Library.Private, e.Library.Public)
}
