// Package cli handles cmd line input and queries for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/placeserve/internal/utils"
	"github.com/bastiangx/placeserve/pkg/gazetteer"
	"github.com/bastiangx/placeserve/pkg/radix"
	"github.com/bastiangx/placeserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler processes user queries from stdin, printing ranked place
// suggestions. With an origin position set, results rank by distance from
// it; otherwise by population weight within the match set.
type InputHandler struct {
	directory *gazetteer.Directory
	limit     int
	useOrigin bool
	originLat float64
	originLon float64
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(directory *gazetteer.Directory, limit int, useOrigin bool, lat, lon float64) *InputHandler {
	return &InputHandler{
		directory: directory,
		limit:     limit,
		useOrigin: useOrigin,
		originLat: lat,
		originLon: lon,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed query to handleQuery() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("PlaceServe CLI [BETA]")
	if h.useOrigin {
		log.Printf("Ranking by distance from %.5f, %.5f", h.originLat, h.originLon)
	} else {
		log.Print("Ranking by population (use -geo to rank by distance)")
	}
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a place name prefix and press Enter (Ctrl+C to exit):")

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleQuery(query)
	}
}

// handleQuery runs a single query through the directory and the ranking,
// then prints the top results with population and score.
func (h *InputHandler) handleQuery(query string) {
	if radix.Normalize(query) == "" {
		log.Warnf("'%s' has no letters, matching the entire directory", query)
	}

	start := time.Now()
	places := h.directory.Search(query)

	var (
		results []suggest.Suggestion
		err     error
	)
	if h.useOrigin {
		results, err = suggest.ByDistance(places, h.originLat, h.originLon)
	} else {
		results, err = suggest.ByPopulation(places)
	}
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("Ranking failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No suggestions found for query: '%s'", query)
		return
	}

	// Populations come from the match set; the ranked results only carry
	// name, position, and score.
	populations := make(map[string]int64, len(places))
	for _, p := range places {
		populations[p.FullName()] = p.Population
	}

	shown := len(results)
	if h.limit > 0 && shown > h.limit {
		shown = h.limit
	}
	log.Printf("Found %d matches for '%s', showing %d:", len(results), query, shown)
	for i, s := range results[:shown] {
		fmtPop := utils.FormatWithCommas(populations[s.Name])
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Name)
		log.Printf("%2d. %-60s (score: %.1f, pop: %10s)", i+1, clName, s.Score, fmtPop)
	}
}
