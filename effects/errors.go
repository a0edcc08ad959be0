package effects

import effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"

// ErrNoEffectHandler is wrapped by the panic raised when an effect is
// performed with no handler registered in the context.
var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

// ErrHandlerClosed is reported by effects performed after the handler scope
// ended.
var ErrHandlerClosed = effectmodel.ErrHandlerClosed
