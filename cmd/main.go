package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"admittance"
	"admittance/config"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径（默认查找 $ADMITTANCE_CONFIG 或 ./admittance.yaml）")
	mode := flag.String("mode", "", "覆盖配置中的计算模式：full | reduced")
	disturbed := flag.String("disturbed", "", "计算功率分配比例的扰动电机")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] model.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if *cfgPath != "" {
		cfg, path, err = config.LoadFromPath(*cfgPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
	}
	if *disturbed != "" {
		cfg.Disturbed = *disturbed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	if path != "" {
		log.Info("config loaded", "path", path)
	}

	res, err := admittance.NewAnalysis(cfg, log).RunFile(flag.Arg(0))
	if err != nil {
		log.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if err := report(os.Stdout, res, cfg.Disturbed); err != nil {
		log.Error("write result failed", "error", err)
		os.Exit(1)
	}
}

// report 输出计算结果，任一写入失败即返回
func report(w io.Writer, res *admittance.Result, disturbed string) error {
	if _, err := fmt.Fprintln(w, "# admittance matrix"); err != nil {
		return err
	}
	if err := res.Y.Format(w); err != nil {
		return err
	}
	if res.Reduced != nil {
		if _, err := fmt.Fprintln(w, "\n# reduced admittance matrix"); err != nil {
			return err
		}
		if err := res.Reduced.Format(w); err != nil {
			return err
		}
	}
	if res.K != nil {
		if _, err := fmt.Fprintln(w, "\n# synchronizing power coefficients"); err != nil {
			return err
		}
		if err := res.K.Format(w); err != nil {
			return err
		}
	}
	if res.Ratios != nil {
		if _, err := fmt.Fprintf(w, "\n# power distribution ratios (disturbed %s)\n", disturbed); err != nil {
			return err
		}
		for _, l := range res.K.Labels() {
			if _, err := fmt.Fprintf(w, "%s\t%.4f\n", l, res.Ratios[l]); err != nil {
				return err
			}
		}
	}
	return nil
}
