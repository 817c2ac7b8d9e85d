package osd

import "github.com/spf13/afero"

func OverloadFS(o afero.Fs) func() {
	ref := fs
	fs = o
	return func() { fs = ref }
}
