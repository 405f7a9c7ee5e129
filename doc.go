// Package reviewlens provides an in-process Go client for searching a
// corpus of product reviews held in a hosted discovery service.
//
// The client builds queries from facet selections, sends them upstream and
// turns the raw response into display records: help rating, sentiment,
// highlight spans, sentiment totals and facet buckets.
//
//	client, _ := reviewlens.New(ctx,
//	    reviewlens.WithAPIKey(os.Getenv("DISCOVERY_API_KEY")),
//	    reviewlens.WithEnvironment("env-id", "collection-id"),
//	)
//	view, _ := client.Search().
//	    Query("dark roast").
//	    NaturalLanguage().
//	    Where(reviewlens.Category, "/food and drink/beverages/coffee (25)").
//	    Sentiment("positive").
//	    Do(ctx)
//
// Interactive callers that may issue overlapping searches should use a
// Session, which drops responses superseded by a newer request.
package reviewlens
