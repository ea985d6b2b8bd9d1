package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bignum.mleku.dev"
)

// allStrategies enumerates every combination of algorithm choices.
func allStrategies() []bignum.Arith {
	var out []bignum.Arith
	for _, d := range []bignum.DivisionAlgorithm{bignum.DivisionHAC, bignum.DivisionClassic} {
		for _, m := range []bignum.MulModAlgorithm{bignum.MulModClassic, bignum.MulModMontgomery} {
			for _, p := range []bignum.MontgomeryProduct{bignum.MontWordwise, bignum.MontBitwise, bignum.MontPerStep} {
				for _, x := range []bignum.ExpAlgorithm{bignum.ExpKary, bignum.ExpBitwise, bignum.ExpMontgomery} {
					out = append(out, bignum.Arith{Division: d, Mult: m, Product: p, Exp: x})
				}
			}
		}
	}
	return out
}

type selfTest struct {
	log      *zap.Logger
	failures int
}

func (s *selfTest) check(op string, a bignum.Arith, want *big.Int, got *bignum.Int, err error) {
	switch {
	case err != nil:
		s.log.Error("operation failed", zap.String("op", op), zap.Stringer("arith", a), zap.Error(err))
	case want.Cmp(got.Big()) != 0:
		s.log.Error("mismatch", zap.String("op", op), zap.Stringer("arith", a),
			zap.String("want", want.Text(16)), zap.String("got", got.Hex()))
	default:
		return
	}
	s.failures++
}

// round draws one set of operands and runs every operation under every
// strategy against math/big.
func (s *selfTest) round(bits int, strategies []bignum.Arith) error {
	n, err := bignum.RandomBits(rand.Reader, bits)
	if err != nil {
		return err
	}
	_ = n.SetBit(bits - 1)
	_ = n.SetBit(0)
	x, err := bignum.RandomBits(rand.Reader, 2*bits-1)
	if err != nil {
		return err
	}
	y, err := bignum.RandomBelow(rand.Reader, &n)
	if err != nil {
		return err
	}
	e, err := bignum.RandomBits(rand.Reader, bits)
	if err != nil {
		return err
	}
	bn, bx, by, be := n.Big(), x.Big(), y.Big(), e.Big()
	bxr := new(big.Int).Mod(bx, bn)
	var xr bignum.Int
	if err = xr.SetBig(bxr); err != nil {
		return err
	}

	wantQ, wantR := new(big.Int).QuoRem(bx, bn, new(big.Int))
	wantMul := new(big.Int).Mul(bxr, by)
	wantMul.Mod(wantMul, bn)
	wantExp := new(big.Int).Exp(bxr, be, bn)
	wantInv := new(big.Int).ModInverse(by, bn)

	for _, a := range strategies {
		var q, r, z bignum.Int
		err := a.DivMod(&q, &r, &x, &n)
		s.check("div", a, wantQ, &q, err)
		s.check("mod", a, wantR, &r, err)

		err = a.MulMod(&z, &xr, &y, &n)
		s.check("mulmod", a, wantMul, &z, err)

		err = a.ExpMod(&z, &xr, &e, &n)
		s.check("expmod", a, wantExp, &z, err)

		if wantInv != nil {
			err = a.InvMod(&z, &y, &n)
			s.check("inv", a, wantInv, &z, err)
		}
	}
	return nil
}

func selfTestCmd(v *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "selftest",
		Short: "cross-check every strategy on random inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()
			rounds, _ := cmd.Flags().GetInt("rounds")
			maxBits, _ := cmd.Flags().GetInt("max-bits")
			if maxBits < 8 || 2*maxBits > bignum.MaxBits {
				return errors.Errorf("max-bits must be in [8, %d]", bignum.MaxBits/2)
			}
			strategies := allStrategies()
			st := &selfTest{log: e.log}
			for i := 0; i < rounds; i++ {
				bits := 8 + i*(maxBits-8)/max(rounds-1, 1)
				if err := st.round(bits, strategies); err != nil {
					return err
				}
			}
			printLine(cmd, fmt.Sprintf("%d rounds, %d strategies, %d disagreements",
				rounds, len(strategies), st.failures))
			if st.failures > 0 {
				return errors.Errorf("%d disagreements", st.failures)
			}
			return nil
		},
	}
	c.Flags().Int("rounds", 20, "number of random operand sets")
	c.Flags().Int("max-bits", 512, "largest modulus size")
	return c
}
