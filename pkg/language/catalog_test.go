package language

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCatalogWithoutToken(t *testing.T) {
	calls := 0
	c := NewCatalog(func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"ja", "ko", "zh"}, nil
	}, nil)

	got := c.Supported(context.Background(), "")
	if !reflect.DeepEqual(got, Default) {
		t.Errorf("Supported(\"\") = %v, want default %v", got, Default)
	}
	if calls != 0 {
		t.Errorf("fetch called %d times without a token, want 0", calls)
	}
}

func TestCatalogCachesPerToken(t *testing.T) {
	calls := 0
	c := NewCatalog(func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"ja", "ko", "zh"}, nil
	}, nil)

	ctx := context.Background()
	first := c.Supported(ctx, "tok-1")
	second := c.Supported(ctx, "tok-1")
	if calls != 1 {
		t.Errorf("fetch called %d times for one token, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, []string{"ja", "ko", "zh"}) {
		t.Errorf("Supported() = %v / %v, want cached [ja ko zh]", first, second)
	}

	c.Supported(ctx, "tok-2")
	if calls != 2 {
		t.Errorf("fetch called %d times after a new token, want 2", calls)
	}
}

func TestCatalogFallsBackOnFailure(t *testing.T) {
	c := NewCatalog(func(ctx context.Context) ([]string, error) {
		return nil, errors.New("boom")
	}, nil)
	if got := c.Supported(context.Background(), "tok"); !reflect.DeepEqual(got, Default) {
		t.Errorf("Supported() after fetch error = %v, want default", got)
	}
}

func TestCatalogFallsBackOnEmptyResponse(t *testing.T) {
	c := NewCatalog(func(ctx context.Context) ([]string, error) {
		return nil, nil
	}, nil)
	if got := c.Supported(context.Background(), "tok"); !reflect.DeepEqual(got, Default) {
		t.Errorf("Supported() on empty response = %v, want default", got)
	}
}

func TestCatalogNilFetch(t *testing.T) {
	c := NewCatalog(nil, nil)
	if got := c.Supported(context.Background(), "tok"); !reflect.DeepEqual(got, Default) {
		t.Errorf("Supported() with nil fetch = %v, want default", got)
	}
}
