// Package searchd provides a Go client for the searchd federated search API.
//
//	client, _ := searchd.New("http://localhost:8080",
//	    searchd.WithAPIKey(os.Getenv("SEARCHD_API_KEY")),
//	)
//
//	page, _ := client.Search(ctx, searchd.SearchRequest{
//	    Query:       "desk lamp",
//	    EntityTypes: []string{"products"},
//	    Page:        1,
//	    Limit:       20,
//	})
//
//	items, _ := client.QuickSearch(ctx, "desk lamp")
//
// Errors returned by the server unwrap to the package sentinels, so callers can
// branch with errors.Is(err, searchd.ErrRateLimited) and friends.
package searchd
