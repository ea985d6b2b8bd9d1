package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bignum.mleku.dev"
)

// loadConfig reads the config file named by --config, if any. Flags and
// BNCALC_* environment variables override it.
func loadConfig(v *viper.Viper) error {
	file := v.GetString("config")
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config %s", file)
	}
	return nil
}

func arithFrom(v *viper.Viper) (bignum.Arith, error) {
	return bignum.ParseArith(
		v.GetString("division"),
		v.GetString("mulmod"),
		v.GetString("product"),
		v.GetString("exp"),
	)
}

// loggerFrom builds the command logger: console or JSON encoding to stderr,
// level from --log-level.
func loggerFrom(v *viper.Viper) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch f := v.GetString("log-format"); f {
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		enc = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("unknown log format %q", f)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("bncalc"), nil
}

// env bundles what every command needs.
type env struct {
	arith bignum.Arith
	log   *zap.Logger
}

func setup(v *viper.Viper) (env, error) {
	a, err := arithFrom(v)
	if err != nil {
		return env{}, err
	}
	log, err := loggerFrom(v)
	if err != nil {
		return env{}, err
	}
	log.Debug("strategy", zap.Stringer("arith", a))
	return env{arith: a, log: log}, nil
}

func parseInts(args []string) ([]bignum.Int, error) {
	out := make([]bignum.Int, len(args))
	for i, s := range args {
		if err := out[i].SetHex(s); err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
	}
	return out, nil
}
