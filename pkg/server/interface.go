/*
Package server exposes the place suggestion service over HTTP.

The API is a read-only pair of GET endpoints. The main one answers ranked
suggestions for a name prefix:

	GET /suggestions?q=Londo
	GET /suggestions?q=Londo&latitude=43.70011&longitude=-79.4163

Without coordinates the ranking weighs population within the match set; with
both coordinates it decays with distance from the given position. Responses
always carry a suggestions array, empty when nothing matched or nothing
scored high enough:

	{
	  "suggestions": [
	    {
	      "name": "London, ON, Canada",
	      "latitude": "42.98339",
	      "longitude": "-81.23304",
	      "score": 0.9
	    }
	  ]
	}

A missing q parameter or unparseable coordinates answer 400; coordinates that
parse but sit off the globe answer 422. Error bodies are {"error": "..."}.

GET /healthz reports liveness plus the number of loaded places.
*/
package server

import (
	"github.com/bastiangx/placeserve/pkg/gazetteer"
	"github.com/bastiangx/placeserve/pkg/suggest"
)

// Searcher is the directory view the server needs: prefix search over full
// place names plus the total count for the health endpoint.
// *gazetteer.Directory satisfies it.
type Searcher interface {
	Search(query string) []*gazetteer.Place
	Len() int
}

// suggestionsResponse is the success body. Suggestions is always present and
// always an array, [] when empty.
type suggestionsResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status string `json:"status"`
	Places int    `json:"places"`
}
