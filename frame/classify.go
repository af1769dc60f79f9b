package frame

import "strings"

// The classifier works off ordered lists of literal prefixes. The lists
// are tuned to the Go toolchain's symbol and path conventions; symbol
// resolution gaps make every predicate best-effort, never an error.

// Symbol prefixes that mark a frame as runtime/standard-library or
// otherwise non-application code.
var dependencySymbolPrefixes = []string{
	"runtime.",
	"runtime/",
	"reflect.",
	"syscall.",
	"sync.",
	"os.",
	"fmt.",
	"errors.",
	"bufio.",
	"bytes.",
	"strings.",
	"strconv.",
	"sort.",
	"time.",
	"testing.",
	"internal/",
	"golang.org/x/",
	"github.com/paniclens/paniclens.",
	"github.com/paniclens/paniclens/",
}

// File-path prefixes of common toolchain installations.
var dependencyFilePrefixes = []string{
	"/usr/local/go/src/",
	"/usr/lib/go/src/",
	"/opt/go/src/",
}

// Path segments that identify third-party sources fetched into the
// module cache or vendored into the build.
var dependencyFileMarkers = []string{
	"/pkg/mod/",
	"/vendor/",
}

// Symbol prefixes of the panic delivery machinery itself: the unwind
// entry points, panic formatting, and this module's own hook frames.
var postPanicSymbolPrefixes = []string{
	"runtime.gopanic",
	"runtime.panic",
	"runtime.sigpanic",
	"runtime.printpanics",
	"runtime.preprintpanics",
	"github.com/paniclens/paniclens.HandlePanic",
	"github.com/paniclens/paniclens.RecoverToError",
	"github.com/paniclens/paniclens.(*Hook)",
}

// Symbol prefixes of program and test-harness startup code.
var runtimeInitSymbolPrefixes = []string{
	"runtime.main",
	"runtime.goexit",
	"runtime.rt0_",
	"runtime.mstart",
	"testing.tRunner",
	"testing.(*M).Run",
	"testing.runTests",
}

// Generated test binaries carry a main.main in a synthesized file; the
// name alone is indistinguishable from application code.
const (
	testMainSymbol     = "main.main"
	testMainFileSuffix = "_testmain.go"
)

// IsDependency reports whether the frame heuristically belongs to the
// runtime, the standard library, or third-party sources.
func IsDependency(f Frame) bool {
	if f.Name != "" && hasAnyPrefix(f.Name, dependencySymbolPrefixes) {
		return true
	}
	if f.File != "" {
		if hasAnyPrefix(f.File, dependencyFilePrefixes) {
			return true
		}
		for _, m := range dependencyFileMarkers {
			if strings.Contains(f.File, m) {
				return true
			}
		}
	}
	return false
}

// IsPostPanic reports whether the frame belongs to the panic delivery
// machinery that runs between the failure site and the capture point.
func IsPostPanic(f Frame) bool {
	return f.Name != "" && hasAnyPrefix(f.Name, postPanicSymbolPrefixes)
}

// IsRuntimeInit reports whether the frame belongs to program or
// test-harness startup.
func IsRuntimeInit(f Frame) bool {
	if f.Name == "" {
		return false
	}
	if hasAnyPrefix(f.Name, runtimeInitSymbolPrefixes) {
		return true
	}
	return f.Name == testMainSymbol && strings.HasSuffix(f.File, testMainFileSuffix)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
