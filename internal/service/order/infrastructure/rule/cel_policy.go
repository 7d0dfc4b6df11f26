// Package rule 用 CEL 表达式实现购物车级折扣规则。
package rule

import (
	"context"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/service/order/domain"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// compiledRule 是编译好的一条规则。
type compiledRule struct {
	name          string
	rate          decimal.Decimal
	resetsLoyalty bool
	program       cel.Program
}

// CELDiscountPolicy 实现 domain.DiscountPolicy。
// 规则在启动时编译，表达式可以引用 total_quantity、complete_order_count 和 subtotal。
type CELDiscountPolicy struct {
	rules []compiledRule
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("total_quantity", cel.IntType),
		cel.Variable("complete_order_count", cel.IntType),
		cel.Variable("subtotal", cel.DoubleType),
	)
}

// NewCELDiscountPolicy 编译全部规则，任意一条无法编译或不是布尔表达式都返回错误。
func NewCELDiscountPolicy(defs []bootstrap.DiscountRule) (*CELDiscountPolicy, error) {
	env, err := newEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cel env")
	}

	p := &CELDiscountPolicy{rules: make([]compiledRule, 0, len(defs))}
	for _, d := range defs {
		rate, err := decimal.NewFromString(d.Rate)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: invalid rate", d.Name)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errors.Errorf("rule %q: rate %s out of range [0,1]", d.Name, d.Rate)
		}

		ast, iss := env.Compile(d.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, errors.Wrapf(iss.Err(), "rule %q: compile", d.Name)
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, errors.Errorf("rule %q: expression must be boolean, got %s", d.Name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: program", d.Name)
		}
		p.rules = append(p.rules, compiledRule{name: d.Name, rate: rate, resetsLoyalty: d.ResetsLoyalty, program: prg})
	}
	return p, nil
}

// Evaluate 按配置顺序返回命中的规则。
func (p *CELDiscountPolicy) Evaluate(ctx context.Context, facts domain.PricingFacts) ([]domain.Adjustment, error) {
	vars := map[string]any{
		"total_quantity":       int64(facts.TotalQuantity),
		"complete_order_count": int64(facts.CompleteOrderCount),
		"subtotal":             facts.Subtotal.InexactFloat64(),
	}

	var hits []domain.Adjustment
	for _, r := range p.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, _, err := r.program.Eval(vars)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %q: eval", r.name)
		}
		matched, ok := out.Value().(bool)
		if !ok {
			return nil, errors.Errorf("rule %q: non-boolean result %v", r.name, out.Value())
		}
		if matched {
			hits = append(hits, domain.Adjustment{Name: r.name, Rate: r.rate, ResetsLoyalty: r.resetsLoyalty})
		}
	}
	return hits, nil
}
