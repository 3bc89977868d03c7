package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("INSIGHTBOARD_TEST_MODE", "1")
		if os.Getenv("INSIGHTS_URL") == "" {
			_ = os.Setenv("INSIGHTS_URL", "http://127.0.0.1:0/api/insights")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
