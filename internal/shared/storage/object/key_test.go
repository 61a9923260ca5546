package object

import (
	"regexp"
	"strings"
	"sync"
	"testing"
)

func TestGenerateKeyAthleteShape(t *testing.T) {
	key := GenerateKey("headshot.JPG", 42)

	pattern := regexp.MustCompile(`^athletes/42/\d{4}/\d{2}/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jpg$`)
	if !pattern.MatchString(key) {
		t.Fatalf("unexpected key shape: %s", key)
	}
}

func TestGenerateKeyGeneralShape(t *testing.T) {
	key := GenerateKey("clip.mp4", 0)

	if !strings.HasPrefix(key, "general/") {
		t.Fatalf("expected general scope, got %s", key)
	}
	if !strings.HasSuffix(key, ".mp4") {
		t.Fatalf("expected mp4 extension, got %s", key)
	}
}

func TestGenerateKeyNoExtension(t *testing.T) {
	key := GenerateKey("README", 7)
	if strings.Contains(key[strings.LastIndex(key, "/"):], ".") {
		t.Fatalf("expected no extension suffix, got %s", key)
	}

	key = GenerateKey("trailing.", 7)
	if strings.HasSuffix(key, ".") {
		t.Fatalf("expected trailing dot dropped, got %s", key)
	}
}

func TestGenerateKeyConcurrentUniqueness(t *testing.T) {
	const workers = 10
	const perWorker = 1000

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				keys = append(keys, GenerateKey("file.bin", 1))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, k := range keys {
				if _, dup := seen[k]; dup {
					t.Errorf("duplicate key generated: %s", k)
				}
				seen[k] = struct{}{}
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d unique keys, got %d", workers*perWorker, len(seen))
	}
}
