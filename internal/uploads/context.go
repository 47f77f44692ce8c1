package uploads

import "context"

type contextKey struct{}

// WithStoredFile attaches a stored upload to ctx.
func WithStoredFile(ctx context.Context, file StoredFile) context.Context {
	return context.WithValue(ctx, contextKey{}, file)
}

// StoredFileFromContext returns the upload attached by the upload gate.
func StoredFileFromContext(ctx context.Context) (StoredFile, bool) {
	file, ok := ctx.Value(contextKey{}).(StoredFile)
	return file, ok
}

// RequireStoredFile is StoredFileFromContext for handlers that cannot proceed
// without a file.
func RequireStoredFile(ctx context.Context) (StoredFile, error) {
	file, ok := StoredFileFromContext(ctx)
	if !ok {
		return StoredFile{}, ErrMissingFile
	}
	return file, nil
}
