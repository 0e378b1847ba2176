//go:build windows

package textdecode

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func init() {
	fallbacks = []namedEncoding{
		{name: "gbk", enc: simplifiedchinese.GBK},
		{name: "windows-1252", enc: charmap.Windows1252},
	}
}
