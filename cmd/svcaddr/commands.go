package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	svcaddr "github.com/dep2p/go-svcaddr"
	"github.com/dep2p/go-svcaddr/internal/core/metrics"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
)

// command 子命令
type command struct {
	usage   string
	summary string
	minArgs int
	maxArgs int
	metrics bool
	run     func(ctx context.Context, b *svcaddr.Book, args []string, w io.Writer) error
}

var commandOrder = []string{"put", "get", "del", "list", "count", "resolve", "metrics"}

var commands = map[string]command{
	"put": {
		usage: "<uuid> [alias]", summary: "写入记录（别名为空表示清除）",
		minArgs: 1, maxArgs: 2, run: cmdPut,
	},
	"get": {
		usage: "<uuid>", summary: "读取记录",
		minArgs: 1, maxArgs: 1, run: cmdGet,
	},
	"del": {
		usage: "<uuid>", summary: "删除记录",
		minArgs: 1, maxArgs: 1, run: cmdDel,
	},
	"list": {
		usage: "", summary: "列出全部记录",
		run: cmdList,
	},
	"count": {
		usage: "", summary: "记录总数",
		run: cmdCount,
	},
	"resolve": {
		usage: "<uuid|alias>", summary: "解析为地址句柄",
		minArgs: 1, maxArgs: 1, run: cmdResolve,
	},
	"metrics": {
		usage: "", summary: "以 Prometheus 文本格式输出指标",
		metrics: true, run: cmdMetrics,
	},
}

func cmdPut(ctx context.Context, b *svcaddr.Book, args []string, w io.Writer) error {
	id, err := svcaddr.ParseDurableID(args[0])
	if err != nil {
		return err
	}
	rec := svcaddr.Recipient{ID: id}
	if len(args) > 1 {
		rec.Alias = svcaddr.Alias(args[1])
	}
	if err := b.Put(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(w, "ok %s\n", id)
	return nil
}

func cmdGet(ctx context.Context, b *svcaddr.Book, args []string, w io.Writer) error {
	id, err := svcaddr.ParseDurableID(args[0])
	if err != nil {
		return err
	}
	return b.Store().Read(ctx, func(tx pkgif.RecipientReader) error {
		rec, err := tx.Fetch(id)
		if err != nil {
			return err
		}
		printRecords(w, []svcaddr.Recipient{rec})
		return nil
	})
}

func cmdDel(ctx context.Context, b *svcaddr.Book, args []string, w io.Writer) error {
	id, err := svcaddr.ParseDurableID(args[0])
	if err != nil {
		return err
	}
	if err := b.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted %s\n", id)
	return nil
}

func cmdList(ctx context.Context, b *svcaddr.Book, _ []string, w io.Writer) error {
	recs, err := b.Store().FetchAll(ctx)
	if err != nil {
		return err
	}
	printRecords(w, recs)
	return nil
}

func cmdCount(ctx context.Context, b *svcaddr.Book, _ []string, w io.Writer) error {
	return b.Store().Read(ctx, func(tx pkgif.RecipientReader) error {
		n, err := tx.Count()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, n)
		return nil
	})
}

// cmdResolve 参数能解析为 UUID 时按 DurableID 解析，否则按别名
func cmdResolve(_ context.Context, b *svcaddr.Book, args []string, w io.Writer) error {
	var addr *svcaddr.Address
	if id, err := svcaddr.ParseDurableID(args[0]); err == nil {
		addr = b.Address(id, "", svcaddr.TrustLow)
	} else {
		alias := svcaddr.Alias(args[0])
		if err := alias.Validate(); err != nil {
			return err
		}
		addr = b.Address(svcaddr.DurableID{}, alias, svcaddr.TrustLow)
	}

	fmt.Fprintln(w, addr)
	fmt.Fprintf(w, "token:    %s\n", addr.Key())
	fmt.Fprintf(w, "complete: %t\n", addr.IsComplete())
	return nil
}

func cmdMetrics(_ context.Context, b *svcaddr.Book, _ []string, w io.Writer) error {
	return metrics.WriteText(w, b.Metrics())
}

func printRecords(w io.Writer, recs []svcaddr.Recipient) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UUID\tALIAS\tUPDATED")
	for _, r := range recs {
		alias := r.Alias.String()
		if alias == "" {
			alias = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, alias, r.UpdatedAt.Local().Format(time.RFC3339))
	}
	_ = tw.Flush()
}
