package registry

import "github.com/tomokot1225-ops/sagyo-mania/pkg/model"

// Defaults returns the fixed default category set. デフォルト carries no
// keywords and acts as the catch-all for unclassified imports.
func Defaults() []model.Category {
	return []model.Category{
		{Name: "社内", Color: "#E25D33", Subs: []string{"社内", "準備"}, Keywords: []string{"社内"}},
		{Name: "全社関連", Color: "#4351AF", Subs: []string{"全社会議", "HR関連"}, Keywords: []string{"全社", "会議"}},
		{Name: "社外", Color: "#397E49", Subs: []string{"社外", "準備"}, Keywords: []string{"社外", "商談"}},
		{Name: "研修", Color: "#5EB47E", Subs: []string{"MENTA", "ツール説明"}, Keywords: []string{"研修", "勉強"}},
		{Name: "問い合わせ関連作業", Color: "#EEC14C", Subs: []string{"担当者", "biz@"}, Keywords: []string{"問い合わせ"}},
		{Name: "受講者メール等個別対応", Color: "#832DA4", Subs: []string{"メール", "個別対応"}, Keywords: []string{"メール"}},
		{Name: "対面訪問", Color: "#C3291C", Subs: []string{"移動", "打ち合わせ"}, Keywords: []string{"訪問", "移動"}},
		{Name: "レポート送付", Color: "#616161", Subs: []string{"月次", "イレギュラー"}, Keywords: []string{"レポート"}},
		{Name: "初動関連", Color: "#D88277", Subs: []string{"見積・申請", "その他"}, Keywords: []string{"見積", "申請"}},
		{Name: "デフォルト", Color: "#4599DF", Subs: []string{"基盤メール返信", "基盤bot", "基盤レポート", "Looker", "基盤コレタ"}, Keywords: nil},
	}
}
