package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

// Reply parse failures are re-prompt conditions, never fatal. The kinds
// distinguish what was wrong; the value kind is domain.ErrBadValue from the
// parameter's converter.
var (
	errBadCertainty  = errors.New("bad certainty factor")
	errMalformedPair = errors.New("malformed value/certainty pair")
)

// replyEntry is one parsed (value, certainty) pair from a raw response.
type replyEntry struct {
	val domain.Value
	cf  cf.Factor
}

// parseReply parses a raw response: without a comma the whole response is a
// single value taken as certain; otherwise it is a comma-separated list of
// "value certainty" pairs. Values go through the parameter's converter and
// certainties must lie on the certainty scale.
func parseReply(p *domain.Parameter, raw string) ([]replyEntry, error) {
	if !strings.Contains(raw, ",") {
		val, err := p.Parse(raw)
		if err != nil {
			return nil, err
		}
		return []replyEntry{{val: val, cf: cf.True}}, nil
	}

	entries := make([]replyEntry, 0, strings.Count(raw, ",")+1)
	for _, pair := range strings.Split(raw, ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q", errMalformedPair, strings.TrimSpace(pair))
		}
		val, err := p.Parse(fields[0])
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadCertainty, fields[1])
		}
		c := cf.Factor(f)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %v is off the certainty scale", errBadCertainty, f)
		}
		entries = append(entries, replyEntry{val: val, cf: c})
	}
	return entries, nil
}
