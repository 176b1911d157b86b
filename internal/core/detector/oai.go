package detector

import (
	"context"
	"strings"

	"oarr/internal/core/register"

	"github.com/antchfx/xmlquery"
)

// OAIPaths are the endpoint locations tried, most common first
var OAIPaths = []string{
	"/oai/request",
	"/cgi/oai2",
	"/oai",
	"/dspace-oai/request",
	"/oai2",
	"/do/oai/",
	"/oai/driver",
}

// OAIPMH guesses the OAI-PMH endpoint and reads its protocol version and metadata formats
type OAIPMH struct{}

func (OAIPMH) Name() string { return "OAI-PMH" }

func (OAIPMH) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (OAIPMH) Detect(ctx context.Context, r *register.Register, info Info) error {
	origin := originOf(r.RepoURL())
	for _, p := range OAIPaths {
		base := origin + p
		identify := base + "?verb=Identify"
		doc := info.XML(ctx, identify)
		if doc == nil || xmlquery.FindOne(doc, "//*[local-name()='Identify']") == nil {
			continue
		}
		api := register.API{
			APIType: register.APIOAIPMH,
			Version: xmlText(doc, "protocolVersion"),
			BaseURL: base,
		}
		if formats := info.XML(ctx, base+"?verb=ListMetadataFormats"); formats != nil {
			for _, n := range xmlquery.Find(formats, "//*[local-name()='metadataFormat']") {
				api.MetadataFormats = append(api.MetadataFormats, register.MetadataFormat{
					Prefix:    xmlText(n, "metadataPrefix"),
					Namespace: xmlText(n, "metadataNamespace"),
					Schema:    xmlText(n, "schema"),
				})
			}
		}
		r.AddAPI(api)
		info.Remember(MemoOAIIdentify, identify)
		return nil
	}
	return nil
}

// xmlText returns the trimmed text of the first descendant of n with the local name
func xmlText(n *xmlquery.Node, local string) string {
	hit := xmlquery.FindOne(n, ".//*[local-name()='"+local+"']")
	if hit == nil {
		return ""
	}
	return strings.TrimSpace(hit.InnerText())
}
