package cartera

import (
	"go/format"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSourcesAreFormatted(t *testing.T) {
	for _, name := range []string{
		"type_money.go",
		"type_quantity.go",
		"transactions.go",
		"unrealized.go",
		"cmd/record.go",
	} {
		src, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile(%q) error = %v", name, err)
		}
		got, err := format.Source(src)
		if err != nil {
			t.Fatalf("format.Source(%q) error = %v", name, err)
		}
		if diff := cmp.Diff(string(src), string(got)); diff != "" {
			t.Errorf("%s is not gofmt'ed (-file +gofmt):\n%s", name, diff)
		}
	}
}
