package feed

import (
	"net/netip"
	"time"

	"xpathbind/node"
)

type Feed struct {
	Title   string        `xpath:"/rss/channel/title"`
	Updated time.Time     `xpath:"/rss/channel/updated"`
	TTL     time.Duration `xpath:"/rss/channel/ttl"`
	Items   []Item        `xpath:"/rss/channel/item"`
	Owner   *Person       `xpath:"/rss/channel/owner,append"`
	Links   []string      `xpath:"//link"`
	Addr    netip.Addr    `xpath:"/rss/channel/addr"`
	Inline  struct {
		Key string `xpath:"./@key"`
	} `xpath:"/rss/channel/inline"`
}

type Item struct {
	Title  string `xpath:"./title"`
	Parent *Item  `xpath:"./parent"`
	Tags   Tags   `xpath:"./tag"`
	Author Person `xpath:"./author"`
}

type Tags []string

type Person struct {
	node.Target
	Name string
}

type Broken struct {
	Count   int               `xpath:"./count,append"`
	Name    string            `xpath:"./name,append"`
	List    []int             `xpath:"./list,append"`
	Empty   string            `xpath:",notrim"`
	Flag    string            `xpath:"./flag,sideways"`
	Bad     string            `xpath:"./bad["`
	hidden  string            `xpath:"./hidden"`
	Meta    map[string]string `xpath:"./meta"`
	Grid    [][]int           `xpath:"./grid"`
	Deep    **Item            `xpath:"./deep"`
	Plain   Plain             `xpath:"./plain"`
	Fn      func()            `xpath:"./fn"`
	Initial string            `xpath:"./initial,char"`
	Cells   []map[string]int  `xpath:"./cell"`
}

type Plain struct{ Name string }

type Ignored struct {
	Name string `xpath:"-"`
}

type Base struct {
	ID string `xpath:"./@id"`
}

type Derived struct {
	Base
	Extra string `xpath:"./extra"`
}
