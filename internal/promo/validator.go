// Package promo validates promotional codes against code lists published
// as gzipped files. A code is accepted when it appears in at least two of
// the loaded lists. The lists run to millions of entries, so each set
// keeps a bloom filter in front of the exact lookup to reject the common
// case (an unknown code) without touching the map.
package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	minCodeLen = 8
	maxCodeLen = 10

	// false positive rate for the per-set bloom filters; misses fall
	// through to the exact map so correctness does not depend on it
	bloomFalsePositiveRate = 0.01
)

// Validator validates promo codes against multiple code lists.
type Validator struct {
	mu       sync.RWMutex
	codeSets []*codeSet
}

type codeSet struct {
	filter *bloom.BloomFilter
	codes  map[string]bool
}

func newCodeSet(codes map[string]bool) *codeSet {
	n := uint(len(codes))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, bloomFalsePositiveRate)
	for code := range codes {
		filter.AddString(code)
	}
	return &codeSet{filter: filter, codes: codes}
}

func (cs *codeSet) contains(code string) bool {
	if !cs.filter.TestString(code) {
		return false
	}
	return cs.codes[code]
}

// NewValidator creates an empty validator. Until lists are loaded every
// code is invalid.
func NewValidator() *Validator {
	return &Validator{}
}

type fileLoadResult struct {
	index int
	codes map[string]bool
	err   error
}

// LoadFromURLs loads code lists from gzipped URLs concurrently. It fails
// if any list fails to load.
func (v *Validator) LoadFromURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}

	resultChan := make(chan fileLoadResult, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(index int, fileURL string) {
			defer wg.Done()

			codes, err := loadFromURL(ctx, fileURL)
			resultChan <- fileLoadResult{
				index: index,
				codes: codes,
				err:   err,
			}
		}(i, url)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]fileLoadResult, len(urls))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("failed to load list %d: %w", i+1, result.err)
		}
	}

	sets := make([]*codeSet, len(results))
	for i, result := range results {
		sets[i] = newCodeSet(result.codes)
	}

	v.mu.Lock()
	v.codeSets = sets
	v.mu.Unlock()

	return nil
}

// loadFromURL downloads and parses a gzipped code list.
func loadFromURL(ctx context.Context, url string) (map[string]bool, error) {
	// Large files need a generous timeout
	client := &http.Client{
		Timeout: 5 * time.Minute,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	return parseCodes(gzReader)
}

// parseCodes reads one code per line and returns them as a set.
func parseCodes(r io.Reader) (map[string]bool, error) {
	codes := make(map[string]bool)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			codes[line] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading list: %w", err)
	}

	return codes, nil
}

// IsValid checks a promo code. A code is valid when:
// 1. It has 8-10 characters
// 2. It appears in at least 2 of the loaded lists
func (v *Validator) IsValid(ctx context.Context, code string) bool {
	if len(code) < minCodeLen || len(code) > maxCodeLen {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.codeSets) == 0 {
		return false
	}

	count := 0
	for _, cs := range v.codeSets {
		if cs.contains(code) {
			count++
			if count >= 2 {
				return true
			}
		}
	}

	return false
}

// Stats returns load statistics for monitoring.
func (v *Validator) Stats() map[string]interface{} {
	v.mu.RLock()
	defer v.mu.RUnlock()

	listSizes := make([]int, len(v.codeSets))
	totalCodes := 0
	for i, cs := range v.codeSets {
		listSizes[i] = len(cs.codes)
		totalCodes += len(cs.codes)
	}

	return map[string]interface{}{
		"total_lists": len(v.codeSets),
		"list_sizes":  listSizes,
		"total_codes": totalCodes,
	}
}
