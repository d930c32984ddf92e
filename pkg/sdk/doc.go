// Package sift provides an embedded Go client for the sift record store
// with relevance search. The client wires the service layer directly
// over a Redis-compatible database, without going through the HTTP API.
//
//	client, _ := sift.New(ctx, sift.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	client.Collections().Create(ctx, "posts",
//	    sift.WithField("title", sift.FieldString),
//	    sift.WithField("body", sift.FieldString),
//	    sift.WithWeight("title", 2.0),
//	)
//	client.Records("posts").Upsert(ctx, "p1", map[string]any{
//	    "title": "Hello",
//	    "body":  "First post",
//	})
//	page, _ := client.Search("posts").Query(ctx, "hello", sift.SearchOptions{
//	    Highlight: true,
//	})
package sift
