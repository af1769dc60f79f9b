package frame

import "testing"

func TestIsDependency(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{"runtime symbol", Frame{Name: "runtime.mapaccess1"}, true},
		{"reflect symbol", Frame{Name: "reflect.Value.Call"}, true},
		{"testing symbol", Frame{Name: "testing.tRunner"}, true},
		{"own module", Frame{Name: "github.com/paniclens/paniclens.HandlePanic"}, true},
		{"goroot file", Frame{Name: "weird", File: "/usr/local/go/src/runtime/proc.go"}, true},
		{"module cache file", Frame{Name: "github.com/acme/dep.Do", File: "/home/u/go/pkg/mod/github.com/acme/dep@v1.0.0/dep.go"}, true},
		{"vendored file", Frame{Name: "github.com/acme/dep.Do", File: "/src/app/vendor/github.com/acme/dep/dep.go"}, true},
		{"application symbol", Frame{Name: "github.com/acme/app.Run", File: "/src/app/run.go"}, false},
		{"main package", Frame{Name: "main.run", File: "/src/app/main.go"}, false},
		{"missing fields", Frame{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDependency(tt.frame); got != tt.want {
				t.Errorf("IsDependency(%+v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestIsPostPanic(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{"gopanic", Frame{Name: "runtime.gopanic"}, true},
		{"panicmem", Frame{Name: "runtime.panicmem"}, true},
		{"sigpanic", Frame{Name: "runtime.sigpanic"}, true},
		{"hook handler", Frame{Name: "github.com/paniclens/paniclens.(*Hook).Handle"}, true},
		{"handle panic entry", Frame{Name: "github.com/paniclens/paniclens.HandlePanic"}, true},
		{"application", Frame{Name: "main.run"}, false},
		{"unresolved", Frame{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPostPanic(tt.frame); got != tt.want {
				t.Errorf("IsPostPanic(%+v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestIsRuntimeInit(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{"runtime main", Frame{Name: "runtime.main"}, true},
		{"goexit", Frame{Name: "runtime.goexit"}, true},
		{"rt0", Frame{Name: "runtime.rt0_go"}, true},
		{"test runner", Frame{Name: "testing.tRunner"}, true},
		{"generated test main", Frame{Name: "main.main", File: "/tmp/build/_testmain.go"}, true},
		{"real main", Frame{Name: "main.main", File: "/src/app/main.go"}, false},
		{"application", Frame{Name: "github.com/acme/app.Run"}, false},
		{"unresolved", Frame{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRuntimeInit(tt.frame); got != tt.want {
				t.Errorf("IsRuntimeInit(%+v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestCaptureNumbersFramesFromOne(t *testing.T) {
	frames := Capture(0)
	if len(frames) == 0 {
		t.Fatal("Capture returned no frames")
	}
	for i, f := range frames {
		if f.Index != i+1 {
			t.Errorf("frames[%d].Index = %d, want %d", i, f.Index, i+1)
		}
	}
	if frames[0].Name == "" {
		t.Error("innermost frame has no symbol name")
	}
}
