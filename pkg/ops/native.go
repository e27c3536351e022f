package ops

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Target names the triple native code is built for.
type Target struct {
	Arch string
	OS   string
}

// HostTarget reports the triple of the machine running this process.
func HostTarget() Target {
	return Target{Arch: runtime.GOARCH, OS: runtime.GOOS}
}

func (t Target) clangTriple() string {
	arch := t.Arch
	if arch == "amd64" {
		arch = "x86_64"
	}
	return fmt.Sprintf("%s-unknown-%s", arch, t.OS)
}

// Build pipes ir's textual LLVM IR into clang, producing a native binary at
// outPath. Grounded in the teacher's Compiler.build: the write to clang's
// stdin and the wait for its exit are run concurrently via an errgroup so
// neither goroutine deadlocks on a full pipe buffer.
func Build(mod IR, target Target, outPath string) error {
	cmd := exec.Command("clang",
		"-x", "ir",
		"--target="+target.clangTriple(),
		"-o", outPath,
		"-",
	)

	r, w := io.Pipe()
	cmd.Stdin = r

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g := errgroup.Group{}
	g.Go(func() error {
		if _, err := w.Write([]byte(mod.String())); err != nil {
			return err
		}
		return w.Close()
	})

	g.Go(func() error {
		if err := cmd.Run(); err != nil {
			// Unblock the writer if clang stopped before draining stdin.
			r.CloseWithError(err)
			return fmt.Errorf("clang: %w: %s", err, stderr.String())
		}
		return nil
	})

	return g.Wait()
}
