// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperdesk/pkg/types"
)

const sampleFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <link href="http://arxiv.org/api/query?search_query=all:attention" rel="self" type="application/atom+xml"/>
  <title type="html">ArXiv Query: search_query=all:attention</title>
  <id>http://arxiv.org/api/cHxbiOdZaP56ODnBPIenZhzg5f8</id>
  <opensearch:totalResults>3</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
  You Need</title>
    <summary>  The dominant sequence transduction models are based on complex
recurrent or convolutional neural networks.
</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <title>Entry without an id</title>
    <summary>Dropped.</summary>
    <link href="http://arxiv.org/abs/0000.00000" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT</title>
    <summary>We introduce BERT.</summary>
    <author><name>Jacob Devlin</name></author>
    <link href="http://arxiv.org/abs/1810.04805v2" rel="alternate" type="text/html"/>
  </entry>
</feed>`

const emptyFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
</feed>`

func decoders() map[string]Decoder {
	return map[string]Decoder{
		"atom": AtomDecoder{},
		"feed": FeedDecoder{},
	}
}

func TestDecodersNormalizeSampleFeed(t *testing.T) {
	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			papers, err := NormalizeFeed(strings.NewReader(sampleFeedXML), dec)
			require.NoError(t, err)
			require.Len(t, papers, 2)

			p := papers[0]
			assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", p.ID)
			assert.Equal(t, "Attention Is All\n  You Need", p.Title)
			assert.True(t, strings.HasPrefix(p.Summary, "The dominant"))
			assert.True(t, strings.HasSuffix(p.Summary, "neural networks."))
			assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Authors)
			assert.Equal(t, []string{"cs.CL", "cs.LG"}, p.Categories)
			assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", p.Link)
			assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", p.PDFURL)

			b := papers[1]
			assert.Equal(t, "http://arxiv.org/abs/1810.04805v2", b.ID)
			assert.Equal(t, "", b.PDFURL)
			assert.Empty(t, b.Categories)
		})
	}
}

func TestDecodersAgree(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantLink string
	}{
		{"sample feed", sampleFeedXML, "http://arxiv.org/abs/1706.03762v7"},
		{
			"link without rel",
			`<feed xmlns="http://www.w3.org/2005/Atom"><entry><id>x1</id><title>T</title><link href="https://arxiv.org/abs/1"/></entry></feed>`,
			"https://arxiv.org/abs/1",
		},
		{
			"feed without namespace",
			`<feed><entry><id>x1</id><title>T</title><link href="https://arxiv.org/abs/1" rel="alternate"/></entry></feed>`,
			"https://arxiv.org/abs/1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atomPapers, err := NormalizeFeed(strings.NewReader(tt.payload), AtomDecoder{})
			require.NoError(t, err)
			feedPapers, err := NormalizeFeed(strings.NewReader(tt.payload), FeedDecoder{})
			require.NoError(t, err)
			require.NotEmpty(t, atomPapers)
			assert.Equal(t, atomPapers, feedPapers)
			assert.Equal(t, tt.wantLink, atomPapers[0].Link)
		})
	}
}

func TestDecodersEmptyFeed(t *testing.T) {
	for name, dec := range decoders() {
		t.Run(name, func(t *testing.T) {
			papers, err := NormalizeFeed(strings.NewReader(emptyFeedXML), dec)
			require.NoError(t, err)
			assert.Empty(t, papers)
		})
	}
}

func TestDecodersUnreadablePayload(t *testing.T) {
	payloads := map[string]string{
		"empty":     "",
		"not xml":   "this is not xml",
		"html root": "<html><body>Service Unavailable</body></html>",
		"truncated": `<feed xmlns="http://www.w3.org/2005/Atom"><entry><id>x</id>`,
	}
	for name, dec := range decoders() {
		for pname, payload := range payloads {
			t.Run(name+"/"+pname, func(t *testing.T) {
				_, err := NormalizeFeed(strings.NewReader(payload), dec)
				assert.ErrorIs(t, err, ErrUpstreamPayloadUnreadable)
			})
		}
	}
}

func TestNewDecoder(t *testing.T) {
	tests := []struct {
		name    types.DecoderName
		want    Decoder
		wantErr bool
	}{
		{"", AtomDecoder{}, false},
		{types.DecoderAtom, AtomDecoder{}, false},
		{types.DecoderFeed, FeedDecoder{}, false},
		{"json", nil, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			dec, err := NewDecoder(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dec)
		})
	}
}
