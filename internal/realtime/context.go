package realtime

import "context"

type originKey struct{}

// WithOrigin tags ctx with the browser tab that issued the request
func WithOrigin(ctx context.Context, tabID string) context.Context {
	if tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, tabID)
}

// OriginFrom returns the tab id set by WithOrigin, or ""
func OriginFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tabID, _ := ctx.Value(originKey{}).(string)
	return tabID
}
