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


// Package openai implements ai.Completer against OpenAI-compatible chat
// completion APIs such as DeepSeek.
//
// It uses the langchaingo OpenAI client. HTTP status codes are captured by a
// wrapping transport so rate limiting (429) and server errors (5xx) surface
// as *ai.StatusError.
//
// # Usage
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("DEEPSEEK_API_KEY")))
//	completer, err := openai.NewCompleter(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reply, err := completer.Complete(ctx, systemPrompt, blockText)
package openai
