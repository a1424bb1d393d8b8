// Package mock provides test double implementations of AI service interfaces.
//
// MockCompleter stands in for ai.Completer so the extraction client and the
// pipeline can be tested without a network service.
//
// # Usage in Tests
//
//	completer := mock.NewMockCompleter().
//	    WithCompleteFunc(func(ctx context.Context, system, user string) (string, error) {
//	        return `结果：{"zodiac":"天蝎"}`, nil
//	    })
//
//	// Check call counts
//	count := completer.CallCount()
//
// # Default Behavior
//
// Without a custom function the mock answers with a short prose preamble and
// a JSON object holding the block's first content line as self_introduction.
package mock
