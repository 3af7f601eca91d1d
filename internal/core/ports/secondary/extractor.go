package secondary

import "context"

// DocumentTextExtractor pulls plain prose out of a binary word-processor document
type DocumentTextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}
