package textimport

import (
	"regexp"
	"strconv"
	"strings"
)

// Block is one raw question block keyed by its leading number.
type Block struct {
	Number  int
	RawBody string
}

var blockMarkerRe = regexp.MustCompile(`(?m)^(\d+)\.\s`)

// SegmentBlocks splits the question section into one block per "<N>. "
// marker line. Content before the first marker is discarded, as are blocks
// whose body is blank. The skipped count feeds the import report.
func SegmentBlocks(section string) (blocks []Block, skipped int) {
	locs := blockMarkerRe.FindAllStringSubmatchIndex(section, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(section) != "" {
			skipped++
		}
		return nil, skipped
	}

	if strings.TrimSpace(section[:locs[0][0]]) != "" {
		skipped++
	}

	for i, loc := range locs {
		end := len(section)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := section[loc[1]:end]
		if strings.TrimSpace(body) == "" {
			skipped++
			continue
		}
		number, err := strconv.Atoi(section[loc[2]:loc[3]])
		if err != nil {
			skipped++
			continue
		}
		blocks = append(blocks, Block{Number: number, RawBody: body})
	}
	return blocks, skipped
}
