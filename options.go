/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

// parseOptions collects the settings ParserOption functions mutate.
// Strings are always copied into the Strings buffer now: there is no
// zero-copy mode, since that mode existed to point back into an mmap'd
// input this module does not assume callers have.
type parseOptions struct {
	maxDepth int
}

func defaultParseOptions() parseOptions {
	return parseOptions{maxDepth: DefaultMaxDepth}
}

// ParserOption configures a Parse/ParseND/ParseNDStream call.
type ParserOption func(*parseOptions)

// WithMaxDepth overrides DefaultMaxDepth for the scope stack. The
// document root counts as one scope, so a document whose open scopes
// (root included) reach depth is rejected with DepthError rather than
// growing the stack unboundedly.
func WithMaxDepth(depth int) ParserOption {
	return func(o *parseOptions) {
		o.maxDepth = depth
	}
}
