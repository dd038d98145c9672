package obs

import (
	"os"
	"testing"
)

// These are smoke tests only: obs writes to the real stderr, so there is
// nothing to assert beyond "it does not panic for typical inputs."
func TestLoggingHelpersDoNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("logging helper panicked: %v", r)
		}
	}()
	devNull, err := os.Open(os.DevNull)
	if err == nil {
		defer devNull.Close()
	}
	Infof("test", "starting %s", "probe")
	Warnf("test", "retry %d of %d", 1, 3)
	Errorf("test", "failed: %v", os.ErrNotExist)
}
