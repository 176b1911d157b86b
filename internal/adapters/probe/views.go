package probe

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"oarr/internal/core/detector"
	"oarr/internal/platform/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

const (
	rdfNS      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfType    = rdfNS + "type"
	mimeRDFXML = "application/rdf+xml"
)

// Soup parses the page at url as HTML, decoding it to UTF-8 first
func (i *Info) Soup(ctx context.Context, url string) *goquery.Document {
	return memo(i, keySoup+url, func() *goquery.Document {
		resp := i.URLGet(ctx, url)
		if resp == nil {
			return nil
		}
		r, err := charset.NewReader(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", url).Msg("probe charset")
			return nil
		}
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", url).Msg("probe html parse")
			return nil
		}
		return doc
	})
}

// XML parses the document at url
func (i *Info) XML(ctx context.Context, url string) *xmlquery.Node {
	return memo(i, keyXML+url, func() *xmlquery.Node {
		resp := i.URLGet(ctx, url)
		if resp == nil {
			return nil
		}
		doc, err := xmlquery.Parse(bytes.NewReader(resp.Body))
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", url).Msg("probe xml parse")
			return nil
		}
		return doc
	})
}

// Feed parses the RSS or Atom feed at url
func (i *Info) Feed(ctx context.Context, url string) *gofeed.Feed {
	return memo(i, keyFeed+url, func() *gofeed.Feed {
		resp := i.URLGet(ctx, url)
		if resp == nil {
			return nil
		}
		f, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body))
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", url).Msg("probe feed parse")
			return nil
		}
		return f
	})
}

// Graph reads the RDF/XML document at url. An empty mimetype is taken from the response;
// anything other than RDF/XML yields nil. Each mimetype asked for is cached apart
func (i *Info) Graph(ctx context.Context, url, mimetype string) *detector.Graph {
	return memo(i, keyGraph+mimetype+"|"+url, func() *detector.Graph {
		resp := i.URLGet(ctx, url)
		if resp == nil {
			return nil
		}
		if mimetype == "" {
			mimetype = resp.ContentType()
		}
		if !strings.EqualFold(mimetype, mimeRDFXML) {
			return nil
		}
		doc, err := xmlquery.Parse(bytes.NewReader(resp.Body))
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", url).Msg("probe rdf parse")
			return nil
		}
		return parseRDF(doc)
	})
}

// parseRDF flattens the striped RDF/XML syntax into statements. Nested node elements
// and parse types beyond plain literals and rdf:resource are not followed
func parseRDF(doc *xmlquery.Node) *detector.Graph {
	root := xmlquery.FindOne(doc, "/*[local-name()='RDF']")
	if root == nil {
		return nil
	}
	g := &detector.Graph{}
	blank := 0
	for node := root.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		subject := rdfAttr(node, "about")
		if subject == "" {
			if id := rdfAttr(node, "nodeID"); id != "" {
				subject = "_:" + id
			} else {
				blank++
				subject = "_:b" + strconv.Itoa(blank)
			}
		}
		if !(node.NamespaceURI == rdfNS && node.Data == "Description") {
			g.Statements = append(g.Statements, detector.Statement{Subject: subject, Predicate: rdfType, Object: node.NamespaceURI + node.Data})
		}
		for prop := node.FirstChild; prop != nil; prop = prop.NextSibling {
			if prop.Type != xmlquery.ElementNode {
				continue
			}
			obj := rdfAttr(prop, "resource")
			if obj == "" {
				obj = strings.TrimSpace(prop.InnerText())
			}
			g.Statements = append(g.Statements, detector.Statement{
				Subject:   subject,
				Predicate: prop.NamespaceURI + prop.Data,
				Object:    obj,
			})
		}
	}
	return g
}

func rdfAttr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.NamespaceURI == rdfNS {
			return a.Value
		}
	}
	return ""
}
