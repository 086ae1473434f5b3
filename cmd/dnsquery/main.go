// Command dnsquery sends a single DNS query over UDP and prints the
// decoded response. It is a diagnostic tool built entirely from the
// resolver's query builder, UDP transport, and packet codec — it contains
// no resolution logic of its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pellham/dnsresolver/internal/dns/domain"
	"github.com/pellham/dnsresolver/internal/dns/transport"
	"github.com/pellham/dnsresolver/internal/dns/wire"
)

func main() {
	server := flag.String("server", "", "server address to query, e.g. 198.41.0.4:53 (required)")
	name := flag.String("name", "", "domain name to query (required)")
	qtype := flag.String("type", "A", "record type to query: A, NS, CNAME, or MX")
	timeout := flag.Duration("timeout", 2*time.Second, "query timeout")
	flag.Parse()

	if *server == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "dnsquery: --server and --name are required")
		flag.Usage()
		os.Exit(1)
	}

	rrtype, err := parseRRType(*qtype)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dnsquery:", err)
		os.Exit(1)
	}

	if err := run(*server, *name, rrtype, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "dnsquery:", err)
		os.Exit(1)
	}
}

func run(server, name string, rrtype domain.RRType, timeout time.Duration) error {
	query := wire.NewQuery(name, rrtype)

	reqBuf := wire.NewByteBuffer()
	if err := wire.EncodePacket(reqBuf, query); err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tr := transport.NewUDPTransport()
	respData, err := tr.Query(ctx, server, reqBuf.IntoBytes())
	if err != nil {
		return fmt.Errorf("querying %s: %w", server, err)
	}

	resp, err := wire.DecodePacket(wire.NewByteBufferFrom(respData))
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	printPacket(resp)
	return nil
}

func printPacket(p *domain.Packet) {
	fmt.Printf("rcode: %s\n", p.Header.RCode)
	fmt.Printf("answers: %d, authorities: %d, additionals: %d\n", len(p.Answers), len(p.Authorities), len(p.Additionals))

	printSection("ANSWER", p.Answers)
	printSection("AUTHORITY", p.Authorities)
	printSection("ADDITIONAL", p.Additionals)
}

func printSection(label string, records []domain.Record) {
	if len(records) == 0 {
		return
	}
	fmt.Printf(";; %s SECTION:\n", label)
	for _, rec := range records {
		fmt.Printf("%s\t%d\t%s\t%s\t%v\n", rec.Name, rec.TTL, rec.Class, rec.Type(), rec.Data)
	}
}

func parseRRType(s string) (domain.RRType, error) {
	switch strings.ToUpper(s) {
	case "A":
		return domain.RRTypeA, nil
	case "NS":
		return domain.RRTypeNS, nil
	case "CNAME":
		return domain.RRTypeCNAME, nil
	case "MX":
		return domain.RRTypeMX, nil
	default:
		return 0, fmt.Errorf("unsupported record type %q", s)
	}
}
