//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"go.trai.ch/firecast/internal/adapters/jobserver"
	"go.trai.ch/firecast/internal/core/domain"
)

var firecastBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "firecast-e2e-*")
	if err != nil {
		panic(err)
	}

	firecastBinary = filepath.Join(tmpDir, "firecast")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", firecastBinary, "./cmd/firecast")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build firecast binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"frames": writeFrames,
		},
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")
	env.Setenv("FIRECAST_DATA_DIR", env.WorkDir)

	binDir := filepath.Dir(firecastBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	return nil
}

// writeFrames writes n synthetic simulation frames into dir: frames dir n.
func writeFrames(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! frames")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: frames dir n")
	}
	n, err := strconv.Atoi(args[1])
	ts.Check(err)

	dir := ts.MkAbs(args[0])
	ts.Check(os.MkdirAll(dir, domain.DirPerm))
	for i := range n {
		address := domain.FrameAddress(dir, i)
		data, err := jobserver.Synthesize(address, jobserver.PreviewSize)
		ts.Check(err)
		ts.Check(os.WriteFile(address, data, domain.FilePerm))
	}
}
