package synth

import (
	"fmt"
	"go/types"

	"github.com/dave/jennifer/jen"
)

// typeCode renders t as a jennifer type expression. Package qualifiers are
// resolved by the file, so types of the generated package stay unqualified.
func typeCode(t types.Type) (jen.Code, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer"), nil
		}
		if t.Info()&types.IsUntyped != 0 {
			return nil, fmt.Errorf("untyped %s", t)
		}
		return jen.Id(t.Name()), nil
	case *types.Named:
		obj := t.Obj()
		var c *jen.Statement
		if obj.Pkg() == nil {
			c = jen.Id(obj.Name())
		} else {
			c = jen.Qual(obj.Pkg().Path(), obj.Name())
		}
		if args := t.TypeArgs(); args.Len() > 0 {
			codes := make([]jen.Code, 0, args.Len())
			for i := 0; i < args.Len(); i++ {
				a, err := typeCode(args.At(i))
				if err != nil {
					return nil, err
				}
				codes = append(codes, a)
			}
			c = c.Types(codes...)
		}
		return c, nil
	case *types.Pointer:
		elem, err := typeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case *types.Slice:
		elem, err := typeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case *types.Array:
		elem, err := typeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index(jen.Lit(int(t.Len()))).Add(elem), nil
	case *types.Map:
		key, err := typeCode(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := typeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(elem), nil
	case *types.Interface:
		if t.Empty() {
			return jen.Id("any"), nil
		}
	}
	return nil, fmt.Errorf("cannot reference type %s from generated code", t)
}

// typeCodes renders several types, stopping at the first failure.
func typeCodes(ts ...types.Type) ([]jen.Code, error) {
	codes := make([]jen.Code, 0, len(ts))
	for _, t := range ts {
		c, err := typeCode(t)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, nil
}
