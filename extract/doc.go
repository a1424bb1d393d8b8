// Package extract turns one profile block into structured fields through
// the remote extraction service.
//
// Client.Extract acquires the rate limiter, calls the service under a
// timeout and classifies failures. Rate limiting (429), server errors (5xx)
// and timeouts are retried with exponential backoff; anything else ends the
// attempt. The service may wrap its JSON in prose, so the reply is scanned
// for the first balanced object that parses.
//
//	limiter := ratelimit.New(15, 4*time.Second)
//	client, err := extract.NewClient(completer, limiter)
//	if err != nil {
//	    return err
//	}
//	out := client.Extract(ctx, extract.Request{Text: block.Text, GenderKnown: true})
//	if !out.OK() {
//	    log.Printf("extraction failed after %d attempts: %v", out.Attempts, out.Err)
//	}
package extract
