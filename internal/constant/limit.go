package constant

const (
	DEFAULT_LIMIT = 20
	MAX_LIMIT     = 100

	DEFAULT_COMMENT_FETCH_LIMIT = 500
	MAX_COMMENT_FETCH_LIMIT     = 1000

	MAX_TITLE_LENGTH       = 100
	MAX_BODY_LENGTH        = 10000
	MAX_COMMENT_LENGTH     = 2000
	MAX_AUTHOR_NAME_LENGTH = 32
	MAX_REASON_LENGTH      = 500
	MAX_FINGERPRINT_LENGTH = 128
	MAX_IMAGES_PER_COMMENT = 4
	MAX_IMAGE_URL_LENGTH   = 2048
)

const (
	DEFAULT_AUTHOR_NAME = "名無しさん"
	REPLY_COUNT_LABEL   = "%d件の返信"
	EMPTY_REPLIES_LABEL = "まだ返信はありません"
	ALREADY_LIKED_LABEL = "すでにいいねしています"
	REPLY_BANNER_PREFIX = "返信先"
	SNIPPET_MAX_RUNES   = 70
	THREAD_TARGET_LABEL = "スレッド"
	IMAGE_ONLY_LABEL    = "[画像]"
	EMPTY_REPLY_LABEL   = "本文または画像を入力してください"
	REPLY_FAILED_LABEL  = "返信の投稿に失敗しました"
	LIKE_FAILED_LABEL   = "いいねに失敗しました"
	FETCH_FAILED_LABEL  = "コメントの取得に失敗しました"
)
