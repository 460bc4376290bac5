//go:build !release

package assert

const Enabled = true
