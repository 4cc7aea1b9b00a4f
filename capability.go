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

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// cpuCapabilities records what the running CPU offers, the way the
// amd64 port's simdjson_amd64.go picked between AVX2 and SSE4 kernels
// at init time. This scalar port has only one code path regardless, so
// the detection feeds SupportLevel/String diagnostics rather than a
// kernel dispatch table.
type cpuCapabilities struct {
	hasAVX2   bool
	hasSSE42  bool
	hasAVX512 bool
}

var (
	capsOnce sync.Once
	caps     cpuCapabilities
)

func capabilities() *cpuCapabilities {
	capsOnce.Do(func() {
		caps = cpuCapabilities{
			hasAVX2:   cpuid.CPU.Supports(cpuid.AVX2),
			hasSSE42:  cpuid.CPU.Supports(cpuid.SSE42),
			hasAVX512: cpuid.CPU.Supports(cpuid.AVX512F),
		}
	})
	return &caps
}

// touch is a no-op observation point: stage 1 calls it so capability
// detection runs (once) before any parse, even though this scalar
// finder does not branch on the result the way the SIMD kernels did.
func (c *cpuCapabilities) touch() {}

// SupportLevel describes what SIMD tier the host CPU would qualify for,
// for diagnostics and parity with the upstream project's reporting even
// though this module's stage 1 does not use it to select a code path.
type SupportLevel uint8

const (
	SupportNone SupportLevel = iota
	SupportSSE42
	SupportAVX2
	SupportAVX512
)

func (s SupportLevel) String() string {
	switch s {
	case SupportAVX512:
		return "AVX512"
	case SupportAVX2:
		return "AVX2"
	case SupportSSE42:
		return "SSE42"
	}
	return "none"
}

// DetectSupport reports the SIMD tier cpuid finds on the running CPU.
func DetectSupport() SupportLevel {
	c := capabilities()
	switch {
	case c.hasAVX512:
		return SupportAVX512
	case c.hasAVX2:
		return SupportAVX2
	case c.hasSSE42:
		return SupportSSE42
	}
	return SupportNone
}
