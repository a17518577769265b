// Package font provides the fonts the PDF renderer draws text with.
//
// Two kinds of [Face] exist:
//
//   - [Standard] faces use the Times family of the Standard 14 fonts.
//     Nothing is embedded. Text is encoded as Windows-1254 with a
//     /Differences array so that the Turkish letters ğ, ı, ş and their
//     capitals render correctly.
//   - [TrueType] faces wrap a parsed TrueType file. Text is encoded as
//     2-byte glyph IDs and the font is embedded as a Type0 font with a
//     CIDFontType2 descendant and a ToUnicode CMap, so any glyph in the
//     file can be drawn and extracted again.
//
// A [Family] groups the regular, bold, italic and bold italic files of
// one typeface and hands out faces:
//
//	fam := font.NewFamily("DejaVuSerif")
//	if err := fam.LoadFile(font.Bold, "/usr/share/fonts/DejaVuSerif-Bold.ttf"); err != nil {
//	    return err
//	}
//	face := fam.Face(font.Bold)
//	w := face.Width("Başlık", 12) // points
//
// A family without files falls back to the Standard faces.
//
// # Widths
//
// Standard widths come from the Adobe font metrics. Letters without a
// metric of their own use the width of their base letter after NFD
// decomposition, which is exact for the accented Latin letters.
package font
