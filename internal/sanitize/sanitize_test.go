package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_Cases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"allowed elements survive", "<p>Hi <strong>there</strong></p>", "<p>Hi <strong>there</strong></p>"},
		{"uppercase allowed tag is lowered", "<P>x</P>", "<p>x</p>"},
		{"script removed with content", "a<script>alert(1)</script>b", "ab"},
		{"style removed with content", "<style>p{color:red}</style><p>x</p>", "<p>x</p>"},
		{"mixed case script", "<ScRiPt type=\"text/javascript\">evil()</sCrIpT>ok", "ok"},
		{"unclosed script swallows the rest", "keep<script>alert(1)", "keep"},
		{"self closing script", "a<script/>b</script>c", "ac"},
		{"stray closing script", "a</script>b", "ab"},
		{"unknown element escaped", "<div class=\"x\">y</div>", "&lt;div class=&#34;x&#34;&gt;y&lt;/div&gt;"},
		{"iframe escaped", "<iframe src=\"x\"></iframe>", "&lt;iframe src=&#34;x&#34;&gt;&lt;/iframe&gt;"},
		{"double quoted handler", "<p onclick=\"evil()\">x</p>", "<p>x</p>"},
		{"single quoted handler", "<p onclick='evil()'>x</p>", "<p>x</p>"},
		{"unquoted handler", "<p onclick=evil()>x</p>", "<p>x</p>"},
		{"mixed case handler", "<a href=\"/x\" OnMouseOver=\"evil()\">x</a>", "<a href=\"/x\">x</a>"},
		{"javascript url", "<a href=\" JavaScript:evil()\">x</a>", "<a>x</a>"},
		{"style attribute", "<p style=\"x\" title=\"t\">x</p>", "<p title=\"t\">x</p>"},
		{"self closing br", "a<br/>b", "a<br />b"},
		{"comment dropped", "a<!-- hidden -->b", "ab"},
		{"doctype dropped", "<!DOCTYPE html><p>x</p>", "<p>x</p>"},
		{"bare angle bracket", "1 < 2 > 0", "1 &lt; 2 &gt; 0"},
		{"truncated tag", "a<p", "a&lt;p"},
		{"trailing angle", "a<", "a&lt;"},
		{"entities preserved", "fish &amp; chips &lt;3", "fish &amp; chips &lt;3"},
		{"bare ampersand escaped", "fish & chips", "fish &amp; chips"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_NoLiveScriptOrHandlers(t *testing.T) {
	inputs := []string{
		`<img src=x onerror=alert(1)>`,
		`<svg><script>alert(1)</script></svg>`,
		`<p onload="x" ONCLICK='y' onfocus=z>t</p>`,
		`<scr<script>ipt>alert(1)</script>`,
		`<<script>script>alert(1)<</script>/script>`,
		`<a href="javascript:alert(1)" onclick="x">go</a>`,
	}
	for _, in := range inputs {
		out := strings.ToLower(Sanitize(in))
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "<img", in)
		assert.NotContains(t, out, "<svg", in)
		assert.NotRegexp(t, `<[^>]*\son[a-z]+=`, out, in)
		assert.NotContains(t, out, `href="javascript`, in)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"<p>Hello <em>world</em></p>",
		"<div><p>nested <span>unknown</span></p></div>",
		"<p <b>>malformed</b>",
		"<a href='x' OnClick=\"y\" onMouseOver=z>link</a>",
		"<ul><li>one<li>two</ul>",
		"<<<>>>",
		"</>",
		"<textarea><b>inside</b></textarea>",
		"<plaintext><p>rest",
		"<title>&amp;</title>",
		"a & b &amp; c &lt; d &notit; &#39; &#x27;",
		"<p title=\"a&quot;b\" data-x='1 > 0'>q</p>",
		"<br/><br /><hr>",
		"<!-- c --><![CDATA[x]]><?php echo 1 ?>",
		"<SCRIPT>x</SCRIPT><STYLE>y</STYLE>",
		"<p\x00>nul\x00</p>",
		"<p",
		"<a href=\"data:text/html,x\">d</a>",
		"<strong><em>unclosed",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestSanitize_NeverPanics(t *testing.T) {
	inputs := []string{
		strings.Repeat("<", 1000),
		strings.Repeat("<p", 500),
		strings.Repeat("<script>", 50),
		"\xff\xfe<p>\xc3</p>",
		"<a " + strings.Repeat("x=", 200) + ">",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Sanitize(in) })
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("p"))
	assert.True(t, Allowed("STRONG"))
	assert.False(t, Allowed("div"))
	assert.False(t, Allowed("script"))
}
