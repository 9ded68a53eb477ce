package epublate

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// translateBlock translates the text of one block element in place,
// leaving tags and attributes untouched. Cancellation is checked
// before every network call; a canceled context propagates as
// context.Canceled, never as a translation failure.
func (t *Translator) translateBlock(ctx context.Context, block *html.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	collected := collectSlots(block)

	var (
		slots    []slot
		prefixes []string
		suffixes []string
		cores    []string
		mappings []map[string]string
	)

	for _, s := range collected {
		prefix, core, suffix := splitWhitespace(s.text())

		var mapping map[string]string
		if t.guard != nil {
			// Lines that are almost entirely notation stay as they are;
			// notation embedded in prose is masked.
			if t.guard.IsNotationLine(core) {
				continue
			}
			core, mapping = t.guard.Mask(core)
		}

		slots = append(slots, s)
		prefixes = append(prefixes, prefix)
		suffixes = append(suffixes, suffix)
		cores = append(cores, core)
		mappings = append(mappings, mapping)
	}

	if len(slots) == 0 {
		return nil
	}

	delim := newDelimiter()
	batches := encodeBatches(cores, delim, t.maxPayload)

	translated := make([]string, 0, len(cores))
	for _, batch := range batches {
		parts, err := t.translateBatch(ctx, batch, delim)
		if err != nil {
			return err
		}
		translated = append(translated, parts...)
	}

	// Extreme fallback: if the per-batch results still do not line up
	// with the slots, discard them and translate every core alone.
	if len(translated) != len(slots) {
		translated = translated[:0]
		for _, core := range cores {
			out, err := t.translateOne(ctx, core)
			if err != nil {
				return err
			}
			translated = append(translated, out)
		}
	}

	for i, s := range slots {
		out := translated[i]
		if t.guard != nil && len(mappings[i]) > 0 {
			out = t.guard.Unmask(out, mappings[i])
		}
		s.setText(prefixes[i] + out + suffixes[i])
	}

	return nil
}

// translateBatch translates one delimiter-joined batch, falling back
// to per-core requests when the translated payload does not split
// back into the expected number of parts.
func (t *Translator) translateBatch(ctx context.Context, batch []string, delim string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := strings.Join(batch, delim)
	out, err := t.client.Translate(ctx, payload, t.targetLang)
	if err != nil {
		return nil, err
	}

	if parts, ok := decodeBatch(out, delim, len(batch)); ok {
		return parts, nil
	}

	parts := make([]string, 0, len(batch))
	for _, core := range batch {
		one, err := t.translateOne(ctx, core)
		if err != nil {
			return nil, err
		}
		parts = append(parts, one)
	}
	return parts, nil
}

func (t *Translator) translateOne(ctx context.Context, core string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.client.Translate(ctx, core, t.targetLang)
}
