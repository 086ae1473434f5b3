// Package rootservers holds the compiled-in table of IANA root name
// servers used to seed every top-level iterative resolution (spec §6).
package rootservers

// Server is one root name server entry: its letter label and IPv4 address.
type Server struct {
	Label string
	IPv4  string
}

// All is the 13 IANA root servers, in their canonical a-m order.
var All = []Server{
	{Label: "a.root-servers.net", IPv4: "198.41.0.4"},
	{Label: "b.root-servers.net", IPv4: "170.247.170.2"},
	{Label: "c.root-servers.net", IPv4: "192.33.4.12"},
	{Label: "d.root-servers.net", IPv4: "199.7.91.13"},
	{Label: "e.root-servers.net", IPv4: "192.203.230.10"},
	{Label: "f.root-servers.net", IPv4: "192.5.5.241"},
	{Label: "g.root-servers.net", IPv4: "192.112.36.4"},
	{Label: "h.root-servers.net", IPv4: "198.97.190.53"},
	{Label: "i.root-servers.net", IPv4: "192.36.148.17"},
	{Label: "j.root-servers.net", IPv4: "192.58.128.30"},
	{Label: "k.root-servers.net", IPv4: "193.0.14.129"},
	{Label: "l.root-servers.net", IPv4: "199.7.83.42"},
	{Label: "m.root-servers.net", IPv4: "202.12.27.33"},
}
