package paniclens

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paniclens/paniclens/frame"
	"github.com/paniclens/paniclens/sink"
)

func TestHandleSerializesConcurrentReports(t *testing.T) {
	t.Setenv(EnvNoFilter, "0")

	var buf bytes.Buffer
	opts := testOptions(VerbosityMedium).WithOut(sink.NewPlain(&buf))
	hook := NewHook(opts)

	tracize := func(name string) []frame.Frame {
		return []frame.Frame{
			{Index: 1, Name: name, File: "/src/app/main.go", Line: 10},
		}
	}

	const workers = 2
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		name := []string{"main.alpha", "main.beta"}[i]
		go func() {
			defer wg.Done()
			hook.Handle("boom from "+name, tracize(name))
		}()
	}
	wg.Wait()

	alpha, err := SprintReport("boom from main.alpha", tracize("main.alpha"), opts)
	require.NoError(t, err)
	beta, err := SprintReport("boom from main.beta", tracize("main.beta"), opts)
	require.NoError(t, err)

	got := buf.String()
	assert.True(t, got == alpha+beta || got == beta+alpha,
		"reports must appear as contiguous blocks, got:\n%s", got)
}

func TestHandleContainsRenderFailure(t *testing.T) {
	var logBuf bytes.Buffer
	opts := testOptions(VerbosityMedium).
		WithOut(failingSink{}).
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil)))

	hook := NewHook(opts)
	require.NotPanics(t, func() {
		hook.Handle("boom", machineryTrace())
	})
	assert.Contains(t, logBuf.String(), "panic report rendering failed")
}

func TestInstallLastRegistrationWins(t *testing.T) {
	var first, second bytes.Buffer

	Install(testOptions(VerbosityMinimal).WithOut(sink.NewPlain(&first)))
	Install(testOptions(VerbosityMinimal).WithOut(sink.NewPlain(&second)))

	ActiveHook().Handle("boom", nil)

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "Message:  boom")
}

func TestHandlePanicRePanics(t *testing.T) {
	t.Setenv(EnvNoFilter, "0")

	var buf bytes.Buffer
	SetActiveHook(NewHook(testOptions(VerbosityMedium).WithOut(sink.NewPlain(&buf))))

	defer func() {
		r := recover()
		require.Equal(t, "kaboom", r, "the original panic must keep propagating")
		assert.Contains(t, buf.String(), "Message:  kaboom")
		assert.Contains(t, buf.String(), "TestHandlePanicRePanics")
	}()

	func() {
		defer HandlePanic()
		panic("kaboom")
	}()
	t.Fatal("unreachable")
}

func TestRecoverToError(t *testing.T) {
	t.Setenv(EnvNoFilter, "0")

	var buf bytes.Buffer
	SetActiveHook(NewHook(testOptions(VerbosityMinimal).WithOut(sink.NewPlain(&buf))))

	err := func() (err error) {
		defer RecoverToError(&err)
		panic("kaboom")
	}()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Contains(t, buf.String(), "Message:  kaboom")
}

func TestLocateFailurePrefersApplicationFrames(t *testing.T) {
	file, line := locateFailure(testOptions(VerbosityMedium), machineryTrace())
	assert.Equal(t, "/src/app/main.go", file)
	assert.Equal(t, 20, line)
}

func TestLocateFailureFallsBackToAnyFrame(t *testing.T) {
	frames := []frame.Frame{
		{Index: 1, Name: "runtime.mapaccess1", File: "/usr/local/go/src/runtime/map.go", Line: 5},
	}
	file, line := locateFailure(testOptions(VerbosityMedium), frames)
	assert.Equal(t, "/usr/local/go/src/runtime/map.go", file)
	assert.Equal(t, 5, line)
}

func TestLocateFailureUnknown(t *testing.T) {
	file, line := locateFailure(testOptions(VerbosityMedium), nil)
	assert.Empty(t, file)
	assert.Zero(t, line)
}

func TestVerbosityFromEnv(t *testing.T) {
	t.Run("unset is minimal", func(t *testing.T) {
		t.Setenv(EnvVerbosity, "")
		require.NoError(t, os.Unsetenv(EnvVerbosity))
		assert.Equal(t, VerbosityMinimal, VerbosityFromEnv())
	})
	t.Run("set but empty is medium", func(t *testing.T) {
		t.Setenv(EnvVerbosity, "")
		assert.Equal(t, VerbosityMedium, VerbosityFromEnv())
	})
	t.Run("arbitrary value is medium", func(t *testing.T) {
		t.Setenv(EnvVerbosity, "1")
		assert.Equal(t, VerbosityMedium, VerbosityFromEnv())
	})
	t.Run("full", func(t *testing.T) {
		t.Setenv(EnvVerbosity, "full")
		assert.Equal(t, VerbosityFull, VerbosityFromEnv())
	})
	t.Run("full is case sensitive", func(t *testing.T) {
		t.Setenv(EnvVerbosity, "FULL")
		assert.Equal(t, VerbosityMedium, VerbosityFromEnv())
	})
}

func TestVerbosityString(t *testing.T) {
	assert.Equal(t, "minimal", VerbosityMinimal.String())
	assert.Equal(t, "medium", VerbosityMedium.String())
	assert.Equal(t, "full", VerbosityFull.String())
	assert.Equal(t, "unknown", Verbosity(99).String())
}

func TestOptionsBuilder(t *testing.T) {
	var buf strings.Builder
	opts := NewOptions().
		WithMessage("well, this is embarrassing").
		WithVerbosity(VerbosityFull).
		WithStripHashes(true).
		WithPrintAddresses(true).
		WithOut(sink.NewPlain(&buf))

	assert.Equal(t, "well, this is embarrassing", opts.message)
	assert.Equal(t, VerbosityFull, opts.verbosity)
	assert.True(t, opts.stripHashes)
	assert.True(t, opts.printAddresses)
}
