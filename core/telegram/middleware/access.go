package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	// IsAdmin reports whether the user id belongs to a privileged user.
	IsAdmin func(userID int64) bool
	// OnReject replies when a non-admin invokes an admin-only handler.
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only privileged users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			if opts.IsAdmin != nil && !opts.IsAdmin(sender.ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
