package classify

import (
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/birdayz/kgraph/internal/model"
)

var lifecycleContexts = map[string]string{
	"Init":    "InitContext",
	"Update":  "UpdateContext",
	"Destroy": "DestroyContext",
}

// classifyHandlers inspects the pointer method set of the node data for
// lifecycle hooks and message handlers.
func (c *classifier) classifyHandlers(def *model.Definition, nd *model.TypeRef) {
	mset := types.NewMethodSet(types.NewPointer(nd.Named))
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		name := fn.Name()
		sig := fn.Type().(*types.Signature)
		pos := c.position(fn.Pos())

		if ctxName, ok := lifecycleContexts[name]; ok {
			want := "func(ctx *knode." + ctxName + ")"
			if sig.Params().Len() != 1 || sig.Results().Len() != 0 || !isKnodePointer(sig.Params().At(0).Type(), ctxName) {
				def.Malformed = append(def.Malformed, model.MalformedMethod{Method: name, Want: want, Pos: pos})
				continue
			}
			switch name {
			case "Init":
				def.Lifecycle.Init = true
			case "Update":
				def.Lifecycle.Update = true
			case "Destroy":
				def.Lifecycle.Destroy = true
			}
			continue
		}

		if !isHandlerName(name) {
			continue
		}
		if sig.Params().Len() != 2 || sig.Results().Len() != 0 || sig.Variadic() ||
			!isKnodePointer(sig.Params().At(0).Type(), "MessageContext") {
			def.Malformed = append(def.Malformed, model.MalformedMethod{
				Method: name,
				Want:   "func(ctx *knode.MessageContext, msg T)",
				Pos:    pos,
			})
			continue
		}
		def.Handlers = append(def.Handlers, model.Handler{
			Method:  name,
			Generic: name == "HandleMessage",
			Payload: sig.Params().At(1).Type(),
			Pos:     pos,
		})
	}
}

// isHandlerName accepts HandleMessage and HandleXxx.
func isHandlerName(name string) bool {
	rest, ok := strings.CutPrefix(name, "Handle")
	if !ok || rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

// bind resolves the handler of every message input. Ports with zero or
// several candidate handlers stay unbound and are reported by validation.
func (c *classifier) bind(def *model.Definition) {
	for _, port := range def.MessageInputs() {
		var matches []model.Handler
		for _, h := range def.Handlers {
			if types.Identical(h.Payload, port.Payload) {
				matches = append(matches, h)
			}
		}
		if len(matches) != 1 {
			continue
		}
		h := matches[0]
		def.Bindings = append(def.Bindings, model.MessageHandlerBinding{
			Port:    port,
			Method:  h.Method,
			Generic: h.Generic,
			Payload: h.Payload,
		})
	}
}
