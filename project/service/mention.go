package service

import (
	"regexp"
)

/*
 * 注意：コメントの文章の中に、ただの文字としてメンションの情報が入っている。
 * また、ユーザー名の後に空白等が入っているとも限らない（"@RikiyaOtaホゲ" もありえる）。
 * なので、あらかじめ登録ユーザー名を候補として保持しておき、その候補ごとに
 * "@ユーザー名" が本文に現れるかをサーチする。
 *
 * この方式の帰結として、候補 "Rikiya" と "RikiyaOta" の両方が登録されている場合、
 * "@RikiyaOta" を含む本文は両方にマッチする。これは仕様上許容している挙動。
 */

// ExtractMentionedUsers はコメント本文から、候補ユーザー名のうち
// "@ユーザー名" としてメンションされているものを候補順に返します。
// マッチングは大文字小文字を区別するリテラル一致です（ユーザー名に
// 正規表現のメタ文字が含まれていてもそのままの文字として扱います）
func ExtractMentionedUsers(comment string, candidates []string) []string {
	mentioned := make([]string, 0, len(candidates))

	for _, name := range candidates {
		// ユーザー名はパターンではなく固定文字列としてマッチさせる
		re := regexp.MustCompile("@" + regexp.QuoteMeta(name))
		if re.MatchString(comment) {
			mentioned = append(mentioned, name)
		}
	}

	return mentioned
}
