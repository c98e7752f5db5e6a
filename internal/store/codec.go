package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// LoadJSON decodes key into dst. It reports false when the key is missing,
// unreadable or malformed, including values of the wrong shape; dst is left
// untouched in that case.
func LoadJSON(ctx context.Context, b Backend, key string, dst any) (bool, error) {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("decode %s: destination must be a non-nil pointer", key)
	}
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	// Decode into a fresh value; a type error mid-document would otherwise
	// leave the elements decoded so far in dst.
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal([]byte(raw), fresh.Interface()); err != nil {
		return false, nil
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

// SaveJSON encodes value and stores it under key.
func SaveJSON(ctx context.Context, b Backend, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadInt reads an integer string. Missing, malformed or negative values
// report false.
func LoadInt(ctx context.Context, b Backend, key string) (int, bool, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false, nil
	}
	return n, true, nil
}

// SaveInt stores n as a decimal string.
func SaveInt(ctx context.Context, b Backend, key string, n int) error {
	if err := b.Set(ctx, key, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadString reads a raw string value.
func LoadString(ctx context.Context, b Backend, key string) (string, bool, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, ok, nil
}

// SaveString stores a raw string value.
func SaveString(ctx context.Context, b Backend, key, value string) error {
	if err := b.Set(ctx, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
