package domain

import "io"

// Transformer decodes a raw upstream listing body into posts.
type Transformer interface {
	Transform(reader io.Reader) ([]RawPost, error)
}
