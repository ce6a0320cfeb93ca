package hashnode

const postFields = `
	id
	slug
	title
	url
	publishedAt
	updatedAt
`

const listPostsQuery = `
query GetPosts($host: String!, $first: Int!) {
	publication(host: $host) {
		posts(first: $first) {
			edges {
				node {` + postFields + `}
			}
		}
	}
}`

const postBySlugQuery = `
query GetPost($slug: String!, $host: String!) {
	publication(host: $host) {
		post(slug: $slug) {` + postFields + `}
	}
}`

const publishPostMutation = `
mutation PublishPost($input: PublishPostInput!) {
	publishPost(input: $input) {
		post {` + postFields + `}
	}
}`

const updatePostMutation = `
mutation UpdatePost($input: UpdatePostInput!) {
	updatePost(input: $input) {
		post {` + postFields + `}
	}
}`
