package utils

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

func ExecShell(name string, arg ...string) string {
	out, errOut := ExecShellEx(log.NewEntry(log.StandardLogger()), true, name, arg...)
	return out + errOut
}

// ExecShellEx runs the command and returns stdout and stderr separately.
// When redirect is set the child's output is mirrored to ours so external
// tool progress stays visible in the daemon log stream.
func ExecShellEx(logger *log.Entry, redirect bool, name string, arg ...string) (string, string) {
	var stdoutBuf, stderrBuf bytes.Buffer
	co := exec.Command(name, arg...)
	stdoutIn, _ := co.StdoutPipe()
	stderrIn, _ := co.StderrPipe()
	var stdout, stderr io.Writer
	if redirect {
		stdout = io.MultiWriter(os.Stdout, &stdoutBuf)
		stderr = io.MultiWriter(os.Stderr, &stderrBuf)
	} else {
		stdout = io.MultiWriter(ioutil.Discard, &stdoutBuf)
		stderr = io.MultiWriter(ioutil.Discard, &stderrBuf)
	}
	err := co.Start()
	if err != nil {
		logger.Warnf("failed to start %s: %v", name, err)
		return "", ""
	}
	var errStdout, errStderr error
	outDone := make(chan struct{})
	errDone := make(chan struct{})
	go func() {
		_, errStdout = io.Copy(stdout, stdoutIn)
		close(outDone)
	}()
	go func() {
		_, errStderr = io.Copy(stderr, stderrIn)
		close(errDone)
	}()
	<-outDone
	<-errDone
	if errStdout != nil {
		logger.Warnf("stdout copy error: %v", errStdout)
	}
	if errStderr != nil {
		logger.Warnf("stderr copy error: %v", errStderr)
	}
	err = co.Wait()
	if err != nil {
		logger.Infof("%s exited: %v", name, err)
	}
	return stdoutBuf.String(), stderrBuf.String()
}
