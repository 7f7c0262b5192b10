// Package main 提供 svcaddr 命令行入口
//
// 对联系人记录存储执行单次操作：
//
//	svcaddr -data ./data put 6ba7b810-9dad-11d1-80b4-00c04fd430c8 +15550100
//	svcaddr -data ./data resolve +15550100
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	svcaddr "github.com/dep2p/go-svcaddr"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
)

var logger = log.Logger("svcaddr/cmd")

// errUsage 参数错误，退出码 2
var errUsage = errors.New("usage")

// cliFlags 命令行参数
//
// 命令行参数只覆盖「这次运行」；持久配置放在配置文件或 SVCADDR_* 环境变量中。
type cliFlags struct {
	configFile  string
	dataDir     string
	inMemory    bool
	logLevel    string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("svcaddr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configFile, "config", "", "配置文件路径（.json/.yaml）")
	fs.StringVar(&f.dataDir, "data", "", "数据目录（覆盖 storage.data_dir）")
	fs.BoolVar(&f.inMemory, "mem", false, "使用内存存储")
	fs.StringVar(&f.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.BoolVar(&f.showVersion, "version", false, "显示版本信息")
	fs.Usage = func() { printHelp(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if f.showVersion {
		fmt.Fprintln(stdout, svcaddr.VersionInfo())
		return nil
	}

	if fs.NArg() == 0 {
		printHelp(fs)
		return errUsage
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "未知命令: %s\n", fs.Arg(0))
		printHelp(fs)
		return errUsage
	}
	cmdArgs := fs.Args()[1:]
	if len(cmdArgs) < cmd.minArgs || len(cmdArgs) > cmd.maxArgs {
		fmt.Fprintf(stderr, "用法: svcaddr %s %s\n", fs.Arg(0), cmd.usage)
		return errUsage
	}

	if err := setupLogging(f, stderr); err != nil {
		return err
	}

	book, err := svcaddr.New(ctx, buildOptions(f, cmd)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := book.Close(); err != nil {
			logger.Warn("关闭失败", "error", err)
		}
	}()

	return cmd.run(ctx, book, cmdArgs, stdout)
}

// buildOptions 由命令行参数构建选项
func buildOptions(f cliFlags, cmd command) []svcaddr.Option {
	opts := []svcaddr.Option{svcaddr.WithConfigFile(f.configFile)}
	if f.dataDir != "" {
		opts = append(opts, svcaddr.WithDataDir(f.dataDir))
	}
	if f.inMemory {
		opts = append(opts, svcaddr.WithInMemoryStorage())
	}
	if cmd.metrics {
		opts = append(opts, svcaddr.WithMetrics(true))
	}
	return opts
}

// setupLogging 日志输出到 stderr，默认只显示警告以上
func setupLogging(f cliFlags, w io.Writer) error {
	level := f.logLevel
	if level == "" {
		level = os.Getenv("SVCADDR_LOG_LEVEL")
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.Setup(lvl, os.Getenv("SVCADDR_LOG_FORMAT"), w)
	return nil
}

// printHelp 打印帮助信息
func printHelp(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "svcaddr - 服务用户身份解析缓存")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "用法:")
	fmt.Fprintln(w, "  svcaddr [选项] <命令> [参数]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "命令:")
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Fprintf(w, "  %-8s %-20s %s\n", name, c.usage, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "选项:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "环境变量:")
	fmt.Fprintln(w, "  SVCADDR_DATA_DIR          数据目录")
	fmt.Fprintln(w, "  SVCADDR_IN_MEMORY         使用内存存储 (true/false)")
	fmt.Fprintln(w, "  SVCADDR_LOCAL_UUID        本地用户 UUID")
	fmt.Fprintln(w, "  SVCADDR_LOCAL_ALIAS       本地用户别名")
	fmt.Fprintln(w, "  SVCADDR_LOG_LEVEL         日志级别")
	fmt.Fprintln(w, "  SVCADDR_LOG_FORMAT        日志格式 (text/json)")
}
