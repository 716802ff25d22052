package state

import (
	"path/filepath"
	"testing"
)

func TestLedgerExactlyOnce(t *testing.T) {
	l, err := OpenLedger(filepath.Join(t.TempDir(), "uploads.db"))
	if err != nil {
		t.Fatalf("OpenLedger() err: %v", err)
	}
	defer l.Close()

	done, err := l.Uploaded("/work/a.mp4")
	if err != nil {
		t.Fatalf("Uploaded() err: %v", err)
	}
	if done {
		t.Error("Uploaded() = true for unknown file")
	}

	fresh, err := l.MarkUploaded("/work/a.mp4", "remote:archive/chan/a.mp4", 1024)
	if err != nil {
		t.Fatalf("MarkUploaded() err: %v", err)
	}
	if !fresh {
		t.Error("first MarkUploaded() = false")
	}

	fresh, err = l.MarkUploaded("/work/a.mp4", "remote:archive/chan/a.mp4", 1024)
	if err != nil {
		t.Fatalf("MarkUploaded() again err: %v", err)
	}
	if fresh {
		t.Error("second MarkUploaded() = true, upload would be duplicated")
	}

	done, err = l.Uploaded("/work/a.mp4")
	if err != nil || !done {
		t.Errorf("Uploaded() = %v, %v after mark", done, err)
	}

	remote, err := l.RemotePath("/work/a.mp4")
	if err != nil {
		t.Fatalf("RemotePath() err: %v", err)
	}
	if remote != "remote:archive/chan/a.mp4" {
		t.Errorf("RemotePath() = %v", remote)
	}
}
