package algo

import (
	stdsha256 "crypto/sha256"
	"hash"
	"runtime"

	cpuid "github.com/klauspost/cpuid/v2"
	"github.com/minio/sha256-simd"
)

// sha256Factory builds SHA-256 contexts with the implementation picked for
// this CPU.
var sha256Factory = pickSHA256(runtime.GOARCH)

// pickSHA256 returns the SIMD implementation when the CPU has the vector
// extensions it needs and crypto/sha256 otherwise.
func pickSHA256(arch string) func() (hash.Hash, error) {
	if hasSHA256SIMD(arch) {
		return func() (hash.Hash, error) { return sha256.New(), nil }
	}
	return func() (hash.Hash, error) { return stdsha256.New(), nil }
}

func hasSHA256SIMD(arch string) bool {
	switch arch {
	case "amd64", "386":
		return cpuid.CPU.Supports(cpuid.SSE2)
	case "arm64":
		// ARM features are not filled in until detected explicitly
		cpuid.DetectARM()
		return cpuid.CPU.Supports(cpuid.ASIMD)
	}
	return false
}
