//go:build !opus

package audio

import "errors"

var errOpusUnsupported = errors.New("opus support is not compiled in")

func decodeOpusFile(_ string) (decodedPCM, error) {
	return decodedPCM{}, errOpusUnsupported
}
