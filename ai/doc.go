// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the abstraction over the remote extraction service.
//
// The service turns unstructured profile text into a JSON object of
// attributes. This package defines the Completer interface used to talk to
// it, the service configuration, the extraction prompt and the error types
// used to classify failed calls.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat completions (DeepSeek by default)
//   - ai/gemini: Google Gemini API
//   - ai/mock: Test double for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewCompleter, gemini.NewCompleter) return the
// ai.Completer INTERFACE to prevent coupling to concrete implementations.
// Test utility constructors (mock.NewMockCompleter) return CONCRETE types so
// tests can inject behavior and assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("DEEPSEEK_API_KEY")))
//	completer, err := openai.NewCompleter(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	system, _ := ai.RenderSystemPrompt(ai.PromptOptions{GenderKnown: true})
//	reply, err := completer.Complete(ctx, system, blockText)
//
// # Errors
//
// Failed HTTP calls surface as *StatusError. Its Retryable method reports
// rate limiting (429) and server errors (5xx).
package ai
