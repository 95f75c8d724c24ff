package format

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/csllog/csl/logsite"
)

var sampleRecord = logsite.Declare(logsite.Info, "{}/{}/{}", "greeter.go", "main", 12,
	logsite.I32, logsite.CString, logsite.F32)

var sampleValues = []logsite.Value{
	logsite.I32Value(1),
	logsite.CStringValue(""),
	logsite.F32Value(1.0),
}

func readFile(path string) string {
	b, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return string(b)
}

var _ = Describe("string formatter", func() {
	It("interpolates every placeholder in order and prefixes level/ts/location", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.txt")

		f, err := New("string")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(sampleRecord, 7, 1700000000, sampleValues, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		out := readFile(path)
		Expect(out).To(Equal("[I] [1700000000] greeter.go:12 | 1//1.000000\n"))
	})

	It("emits a bare line when a record has no placeholders", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.txt")
		rec := logsite.Declare(logsite.Info, "hi", "greeter.go", "main", 3)

		f, _ := New("string")
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(rec, 1, 0, nil, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		Expect(readFile(path)).To(Equal("[I] [0] greeter.go:3 | hi\n"))
	})
})

var _ = Describe("json formatter", func() {
	It("produces a messages array with fmt_str, id, and ordered args", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.json")

		f, err := New("json")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(sampleRecord, 7, 1700000000, sampleValues, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		out := readFile(path)
		Expect(out).To(ContainSubstring(`"fmt_str": "{}/{}/{}"`))
		Expect(out).To(ContainSubstring(`"id": 7`))
		Expect(out).To(ContainSubstring(`"args": [`))
		Expect(out).To(ContainSubstring("1,"))
		Expect(out).To(ContainSubstring(`""`))
		Expect(out).To(ContainSubstring("1.000000"))
		Expect(out).To(HavePrefix("{\n  \"messages\": [\n"))
		Expect(out).To(HaveSuffix("\n  ]\n}\n"))
	})

	It("separates consecutive messages with a comma", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.json")
		rec := logsite.Declare(logsite.Info, "hi", "greeter.go", "main", 3)

		f, _ := New("json")
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(rec, 1, 0, nil, 0)).To(Succeed())
		Expect(f.Handle(rec, 1, 1, nil, 1)).To(Succeed())
		Expect(f.End()).To(Succeed())

		Expect(readFile(path)).To(ContainSubstring("},\n"))
	})
})

var _ = Describe("xml formatter", func() {
	It("wraps the document in <log> and each record in <message>", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.xml")

		f, err := New("xml")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(sampleRecord, 7, 1700000000, sampleValues, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		out := readFile(path)
		Expect(out).To(HavePrefix("<log>\n"))
		Expect(out).To(HaveSuffix("</log>\n"))
		Expect(out).To(ContainSubstring("<fmt_str>{}/{}/{}</fmt_str>"))
		Expect(out).To(ContainSubstring("<i32>1</i32>"))
		Expect(out).To(ContainSubstring("<string></string>"))
		Expect(out).To(ContainSubstring("<f32>1.000000</f32>"))
		Expect(out).To(ContainSubstring(`<level numeric="2">INFO</level>`))
	})

	It("escapes special characters in string fields", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.xml")
		rec := logsite.Declare(logsite.Info, "{}", "greeter.go", "main", 3, logsite.CString)

		f, _ := New("xml")
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(rec, 1, 0, []logsite.Value{logsite.CStringValue("<a&b>")}, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		Expect(readFile(path)).To(ContainSubstring("&lt;a&amp;b&gt;"))
	})
})

var _ = Describe("html formatter", func() {
	It("writes a header row with arg0..arg9 and one data row per entry", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.html")

		f, err := New("html")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Init(path)).To(Succeed())
		Expect(f.Handle(sampleRecord, 7, 1700000000, sampleValues, 0)).To(Succeed())
		Expect(f.End()).To(Succeed())

		out := readFile(path)
		Expect(out).To(ContainSubstring("<th>arg9</th>"))
		Expect(out).To(ContainSubstring("<td>1</td>"))
		Expect(out).To(ContainSubstring("<td>1.000000</td>"))
		Expect(out).To(ContainSubstring("<td></td>")) // unused arg columns blank
	})
})

var _ = Describe("New", func() {
	It("rejects an unknown format name", func() {
		_, err := New("yaml")
		Expect(err).To(HaveOccurred())
	})
})
