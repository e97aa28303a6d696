package factorial

import (
	"context"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/agbru/factcalc/internal/progress"
)

func TestDefaultFactory_List(t *testing.T) {
	t.Parallel()
	got := NewDefaultFactory().List()
	want := []string{"atomic", "big", "channel", "mutex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestDefaultFactory_GetCachesInstances(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	a, err := f.Get("mutex")
	if err != nil {
		t.Fatalf("Get(mutex): %v", err)
	}
	b, _ := f.Get("mutex")
	if a != b {
		t.Error("Get returned different instances for the same key")
	}
	if a.Name() != "Mutex Accumulator (64-bit)" {
		t.Errorf("Name() = %q", a.Name())
	}
}

func TestDefaultFactory_UnknownAlgorithm(t *testing.T) {
	t.Parallel()
	_, err := NewDefaultFactory().Get("quantum")
	if err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
	if !strings.Contains(err.Error(), "quantum") || !strings.Contains(err.Error(), "mutex") {
		t.Errorf("error should name the key and the alternatives, got %q", err)
	}
}

func TestDefaultFactory_MustGetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("MustGet did not panic on an unknown key")
		}
	}()
	NewDefaultFactory().MustGet("quantum")
}

type constCalculator struct{ value int64 }

func (c constCalculator) Calculate(context.Context, chan<- progress.ProgressUpdate, int, uint64, Options) (*big.Int, error) {
	return big.NewInt(c.value), nil
}

func (constCalculator) Name() string { return "Constant" }

func TestDefaultFactory_Register(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	f.Register("const", constCalculator{value: 42})

	calc, err := f.Get("const")
	if err != nil {
		t.Fatalf("Get(const): %v", err)
	}
	got, _ := calc.Calculate(context.Background(), nil, 0, 5, Options{})
	if got.Int64() != 42 {
		t.Errorf("registered calculator returned %d, want 42", got.Int64())
	}
	if len(f.GetAll()) != 5 {
		t.Errorf("GetAll() has %d entries, want 5", len(f.GetAll()))
	}
}

func TestDefaultFactory_ConcurrentGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, name := range f.List() {
				if _, err := f.Get(name); err != nil {
					t.Errorf("Get(%s): %v", name, err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestGlobalFactory_IsShared(t *testing.T) {
	t.Parallel()
	if GlobalFactory() != GlobalFactory() {
		t.Error("GlobalFactory returned different instances")
	}
	if _, err := GlobalFactory().Get(DefaultAlgorithm); err != nil {
		t.Errorf("default algorithm not registered: %v", err)
	}
}
