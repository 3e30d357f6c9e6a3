package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleMessageAppendsLogLine(t *testing.T) {
	t.Chdir(t.TempDir())

	ev := OrderCreatedEvent{
		OrderID:         12,
		ZizeomID:        3,
		AccountID:       7,
		ServiceTarget:   "side windows",
		CarNumber:       "12ga3456",
		ServicePrice:    350000,
		DetailCount:     2,
		TotalFilmAmount: 40,
		CreatedAt:       "2024-03-01T09:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := handleMessage(body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("logs", "warranty.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"order_id=12", "zizeom_id=3", "car=\"12ga3456\"", "film=40"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("log line not newline terminated")
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := handleMessage([]byte("{not json")); err == nil {
		t.Error("garbage payload accepted")
	}
}
